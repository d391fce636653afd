package utils

import (
	"time"

	"github.com/rs/zerolog/log"
)

var storeLocation *time.Location

// InitStoreTimezone loads the store-local timezone from the STORE_TZ
// environment variable. Falls back to UTC if the name cannot be resolved.
func InitStoreTimezone() {
	name := Getenv("STORE_TZ", "America/Chicago")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("tz", name).Msg("Could not load store timezone, falling back to UTC")
		loc = time.UTC
	}
	storeLocation = loc
}

// NowInStoreTZ returns the current time in the store-local timezone.
// Audit rows carry store-local timestamps so shop staff can read them.
func NowInStoreTZ() time.Time {
	if storeLocation == nil {
		InitStoreTimezone()
	}
	return time.Now().In(storeLocation)
}
