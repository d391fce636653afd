package models

import "time"

// AdminDBConfig is the singleton connection record for the admin SQL Server
// database (authentication, cross-store audit, quotation index). Saving a
// new config replaces the previous row inside one transaction.
type AdminDBConfig struct {
	ID        int64     `json:"id" db:"id"`
	Server    string    `json:"server" db:"server" binding:"required"`
	Database  string    `json:"database" db:"database" binding:"required"`
	Username  string    `json:"username" db:"username" binding:"required"`
	Password  string    `json:"-" db:"password"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdminUser is a row of the admin database's user table.
// Activated is nullable on purpose: only an explicit false blocks login,
// an absent flag means the account is active.
type AdminUser struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	FullName   *string `json:"full_name,omitempty"`
	StatusUser *string `json:"statususer,omitempty"`
	Activated  *bool   `json:"activated,omitempty"`
}
