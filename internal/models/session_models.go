package models

import "time"

// Session is a login session backed by an opaque token. Sessions expire 24
// hours after issuance; reads filter on ExpiresAt defensively and a sweep
// purges expired rows.
type Session struct {
	ID           int64     `json:"id" db:"id"`
	SessionToken string    `json:"-" db:"session_token"`
	Username     string    `json:"username" db:"username"`
	FullName     string    `json:"full_name" db:"full_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
}
