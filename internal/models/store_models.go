package models

import "time"

// StoreConnection holds the credentials for one store database.
// At most one active row may have IsPrimary set; the repository's
// SetPrimaryStore enforces the clear-then-set invariant.
type StoreConnection struct {
	ID        int64     `json:"id" db:"id"`
	Nickname  string    `json:"nickname" db:"nickname" binding:"required"`
	Server    string    `json:"server" db:"server" binding:"required"`
	Database  string    `json:"database" db:"database" binding:"required"`
	Username  string    `json:"username" db:"username" binding:"required"`
	Password  string    `json:"-" db:"password"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StoreConnectionPatch enumerates the fields of a store connection that a
// caller wants to change. Nil fields are left untouched. The repository
// translates the patch into a single parameterized UPDATE.
type StoreConnectionPatch struct {
	Nickname  *string
	Server    *string
	Database  *string
	Username  *string
	Password  *string
	IsPrimary *bool
	IsActive  *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p *StoreConnectionPatch) IsEmpty() bool {
	return p.Nickname == nil && p.Server == nil && p.Database == nil &&
		p.Username == nil && p.Password == nil && p.IsPrimary == nil && p.IsActive == nil
}
