package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruolez/inventory-update/internal/models"
)

// SessionRepository manages login session tokens. Expired rows are purged
// by DeleteExpiredSessions; reads filter on expires_at defensively anyway.
type SessionRepository interface {
	CreateSession(token, username, fullName string, expiresAt time.Time) error
	GetSessionByToken(token string) (*models.Session, error)
	DeleteSession(token string) error
	DeleteExpiredSessions() (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// CreateSession stores a new session token.
func (r *sessionRepository) CreateSession(token, username, fullName string, expiresAt time.Time) error {
	query := `INSERT INTO sessions (session_token, username, full_name, expires_at)
	          VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(query, token, username, fullName, expiresAt); err != nil {
		return fmt.Errorf("%w: creating session: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetSessionByToken retrieves a live session. An expired token behaves
// exactly like an unknown one.
func (r *sessionRepository) GetSessionByToken(token string) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT id, session_token, username, full_name, created_at, expires_at
	          FROM sessions
	          WHERE session_token = $1 AND expires_at > CURRENT_TIMESTAMP`

	err := r.db.QueryRow(query, token).Scan(
		&session.ID, &session.SessionToken, &session.Username, &session.FullName,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting session: %v", ErrDatabaseError, err)
	}
	return session, nil
}

// DeleteSession removes a session token (logout).
func (r *sessionRepository) DeleteSession(token string) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE session_token = $1`, token); err != nil {
		return fmt.Errorf("%w: deleting session: %v", ErrDatabaseError, err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions past their expiry and returns the
// number of rows removed.
func (r *sessionRepository) DeleteExpiredSessions() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting expired sessions: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for expired session sweep: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}
