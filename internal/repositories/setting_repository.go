package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ruolez/inventory-update/internal/models"
)

// SettingRepository is a single-table key-value store for tunables.
type SettingRepository interface {
	GetSetting(key string) (*models.ApplicationSetting, error)
	SaveSetting(key, value string) error
	EnsureDefaultSettings() error
}

type settingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *sql.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetSetting retrieves a setting value by key.
func (r *settingRepository) GetSetting(key string) (*models.ApplicationSetting, error) {
	setting := &models.ApplicationSetting{}
	query := `SELECT key, value, updated_at FROM app_settings WHERE key = $1`

	err := r.db.QueryRow(query, key).Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting setting %s: %v", ErrDatabaseError, key, err)
	}
	return setting, nil
}

// SaveSetting upserts a setting value.
func (r *settingRepository) SaveSetting(key, value string) error {
	query := `INSERT INTO app_settings (key, value, updated_at)
	          VALUES ($1, $2, CURRENT_TIMESTAMP)
	          ON CONFLICT (key) DO UPDATE SET
	              value = EXCLUDED.value,
	              updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("%w: saving setting %s: %v", ErrDatabaseError, key, err)
	}
	return nil
}

// EnsureDefaultSettings provisions default values for settings that have
// never been saved. Existing values are left alone.
func (r *settingRepository) EnsureDefaultSettings() error {
	query := `INSERT INTO app_settings (key, value)
	          VALUES ($1, $2)
	          ON CONFLICT (key) DO NOTHING`
	if _, err := r.db.Exec(query, models.SettingKeyQuantityThreshold, "10"); err != nil {
		return fmt.Errorf("%w: provisioning default settings: %v", ErrDatabaseError, err)
	}
	return nil
}
