package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruolez/inventory-update/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// StoreRepository defines the interface for store-connection registry operations.
type StoreRepository interface {
	CreateStore(executor SQLExecutor, store *models.StoreConnection) (int64, error)
	GetStoreByID(id int64) (*models.StoreConnection, error)
	GetStoreByNickname(nickname string) (*models.StoreConnection, error)
	GetPrimaryStore() (*models.StoreConnection, error)
	GetAllStores() ([]models.StoreConnection, error)
	UpdateStore(executor SQLExecutor, id int64, patch *models.StoreConnectionPatch) error
	DeleteStore(executor SQLExecutor, id int64) error
	SetPrimaryStore(id int64) error
	ClearPrimary(executor SQLExecutor) error
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository.
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

const storeColumns = `id, nickname, server, database, username, password, is_primary, is_active, created_at, updated_at`

func scanStore(row interface{ Scan(dest ...interface{}) error }) (*models.StoreConnection, error) {
	store := &models.StoreConnection{}
	err := row.Scan(
		&store.ID, &store.Nickname, &store.Server, &store.Database, &store.Username,
		&store.Password, &store.IsPrimary, &store.IsActive, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// CreateStore inserts a new store connection. Callers that set IsPrimary
// must clear the previous primary first, inside the same transaction.
func (r *storeRepository) CreateStore(executor SQLExecutor, store *models.StoreConnection) (int64, error) {
	query := `INSERT INTO store_connections (nickname, server, database, username, password, is_primary, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	err := executor.QueryRow(query,
		store.Nickname, store.Server, store.Database, store.Username, store.Password,
		store.IsPrimary, true, currentTime, currentTime,
	).Scan(&store.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating store connection: %v", ErrDatabaseError, err)
	}
	return store.ID, nil
}

// GetStoreByID retrieves a store connection by its ID, active or not.
func (r *storeRepository) GetStoreByID(id int64) (*models.StoreConnection, error) {
	query := `SELECT ` + storeColumns + ` FROM store_connections WHERE id = $1`
	store, err := scanStore(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting store by ID %d: %v", ErrDatabaseError, id, err)
	}
	return store, nil
}

// GetStoreByNickname retrieves an active store connection by nickname. The
// nickname is the key the quotation index uses to point at a source store.
func (r *storeRepository) GetStoreByNickname(nickname string) (*models.StoreConnection, error) {
	query := `SELECT ` + storeColumns + ` FROM store_connections WHERE nickname = $1 AND is_active = TRUE`
	store, err := scanStore(r.db.QueryRow(query, nickname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting store by nickname %s: %v", ErrDatabaseError, nickname, err)
	}
	return store, nil
}

// GetPrimaryStore retrieves the single active primary store, if any.
func (r *storeRepository) GetPrimaryStore() (*models.StoreConnection, error) {
	query := `SELECT ` + storeColumns + ` FROM store_connections
	          WHERE is_primary = TRUE AND is_active = TRUE
	          LIMIT 1`
	store, err := scanStore(r.db.QueryRow(query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting primary store: %v", ErrDatabaseError, err)
	}
	return store, nil
}

// GetAllStores retrieves every store connection, primary first, then
// alphabetical by nickname.
func (r *storeRepository) GetAllStores() ([]models.StoreConnection, error) {
	query := `SELECT ` + storeColumns + ` FROM store_connections
	          ORDER BY is_primary DESC, nickname ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying store connections: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	stores := []models.StoreConnection{}
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning store connection: %v", ErrDatabaseError, err)
		}
		stores = append(stores, *store)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating store connection rows: %v", ErrDatabaseError, err)
	}
	return stores, nil
}

// UpdateStore applies a patch to a store connection. Only the fields the
// patch enumerates are written. Callers that set IsPrimary must clear the
// previous primary first, inside the same transaction.
func (r *storeRepository) UpdateStore(executor SQLExecutor, id int64, patch *models.StoreConnectionPatch) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}
	argCount := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.Nickname != nil {
		addSet("nickname", *patch.Nickname)
	}
	if patch.Server != nil {
		addSet("server", *patch.Server)
	}
	if patch.Database != nil {
		addSet("database", *patch.Database)
	}
	if patch.Username != nil {
		addSet("username", *patch.Username)
	}
	if patch.Password != nil {
		addSet("password", *patch.Password)
	}
	if patch.IsPrimary != nil {
		addSet("is_primary", *patch.IsPrimary)
	}
	if patch.IsActive != nil {
		addSet("is_active", *patch.IsActive)
	}
	addSet("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE store_connections SET %s WHERE id = $%d", strings.Join(sets, ", "), argCount)

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating store ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating store ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStore removes a store connection from the registry.
func (r *storeRepository) DeleteStore(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM store_connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting store ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting store ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearPrimary unsets the primary flag on every store connection.
func (r *storeRepository) ClearPrimary(executor SQLExecutor) error {
	if _, err := executor.Exec(`UPDATE store_connections SET is_primary = FALSE`); err != nil {
		return fmt.Errorf("%w: clearing primary store flag: %v", ErrDatabaseError, err)
	}
	return nil
}

// SetPrimaryStore makes the given store the single primary. The clear and
// the set run in one transaction so a concurrent reader never observes zero
// or multiple primaries.
func (r *storeRepository) SetPrimaryStore(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning set-primary transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := r.ClearPrimary(tx); err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE store_connections SET is_primary = TRUE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: setting primary store ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for set-primary store ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing set-primary transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
