package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruolez/inventory-update/internal/models"
)

// AdminConfigRepository manages the singleton admin database connection record.
type AdminConfigRepository interface {
	GetAdminDBConfig() (*models.AdminDBConfig, error)
	SaveAdminDBConfig(cfg *models.AdminDBConfig) error
}

type adminConfigRepository struct {
	db *sql.DB
}

// NewAdminConfigRepository creates a new instance of AdminConfigRepository.
func NewAdminConfigRepository(db *sql.DB) AdminConfigRepository {
	return &adminConfigRepository{db: db}
}

// GetAdminDBConfig returns the latest admin DB configuration, or ErrNotFound
// when none has been saved yet.
func (r *adminConfigRepository) GetAdminDBConfig() (*models.AdminDBConfig, error) {
	cfg := &models.AdminDBConfig{}
	query := `SELECT id, server, database, username, password, updated_at
	          FROM admin_db_config ORDER BY id DESC LIMIT 1`

	err := r.db.QueryRow(query).Scan(
		&cfg.ID, &cfg.Server, &cfg.Database, &cfg.Username, &cfg.Password, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin DB config: %v", ErrDatabaseError, err)
	}
	return cfg, nil
}

// SaveAdminDBConfig replaces the admin DB configuration. The delete of the
// prior row and the insert of the new one run in a single transaction so no
// reader observes a configured system going unconfigured mid-save.
func (r *adminConfigRepository) SaveAdminDBConfig(cfg *models.AdminDBConfig) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning admin config transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM admin_db_config`); err != nil {
		return fmt.Errorf("%w: deleting prior admin DB config: %v", ErrDatabaseError, err)
	}

	query := `INSERT INTO admin_db_config (server, database, username, password, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(query, cfg.Server, cfg.Database, cfg.Username, cfg.Password, time.Now()); err != nil {
		return fmt.Errorf("%w: inserting admin DB config: %v", ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing admin config transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
