package models

import "time"

// SettingKeyQuantityThreshold is the tunable variance guard used by the
// reconciliation pre-flight check. Defaults to 10 when unset.
const SettingKeyQuantityThreshold = "quantity_threshold"

// ApplicationSetting represents a key-value pair for application configuration
type ApplicationSetting struct {
	Key       string    `json:"key" db:"key" binding:"required"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
