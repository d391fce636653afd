package connectors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruolez/inventory-update/internal/models"
)

// InventoryUpdateRecord is one cross-store audit row written to the admin
// database after a store-side quantity write.
type InventoryUpdateRecord struct {
	Username           string
	UpdateType         string
	ProductDescription string
	ProductSKU         string
	ProductUPC         string
	OldQty             float64
	NewQty             float64
	DiffQty            float64
	DateCreated        time.Time
}

// AdminConnector is the uniform query interface over the admin database:
// authentication, the cross-store audit table and the quotation index.
type AdminConnector interface {
	AuthenticateUser(ctx context.Context, username string) (*models.AdminUser, error)
	RecordInventoryUpdate(ctx context.Context, rec InventoryUpdateRecord) error
	GetPendingQuotations(ctx context.Context) ([]models.PendingQuotation, error)
	TestConnection(ctx context.Context) error
}

type adminConnector struct {
	cfg mssqlConfig
}

// NewAdminConnector creates an AdminConnector for the given configuration.
func NewAdminConnector(cfg *models.AdminDBConfig) AdminConnector {
	return &adminConnector{cfg: mssqlConfig{
		Server:   cfg.Server,
		Database: cfg.Database,
		Username: cfg.Username,
		Password: cfg.Password,
	}}
}

// AuthenticateUser looks a user up by username. Returns ErrNotFound for an
// unknown username; the activated flag is returned as-is so the caller can
// apply the permissive absent-means-active rule.
func (c *adminConnector) AuthenticateUser(ctx context.Context, username string) (*models.AdminUser, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT id, username, full_name, statususer, activated
	          FROM AdminUserProject_admin
	          WHERE username = @p1`

	user := &models.AdminUser{}
	var fullName, statusUser sql.NullString
	var activated sql.NullBool

	err = db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &fullName, &statusUser, &activated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: authenticating user %s: %v", ErrConnector, username, err)
	}

	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if statusUser.Valid {
		user.StatusUser = &statusUser.String
	}
	if activated.Valid {
		user.Activated = &activated.Bool
	}
	return user, nil
}

// RecordInventoryUpdate appends a row to the admin-side audit table.
func (c *adminConnector) RecordInventoryUpdate(ctx context.Context, rec InventoryUpdateRecord) error {
	db, err := c.cfg.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `INSERT INTO ManualInventoryUpdate
	          (DateCreated, Username, UpdateType, ProductDescription,
	           ProductSKU, ProductUPC, OldQty, NewQty, DiffQty)
	          VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)`

	_, err = db.ExecContext(ctx, query,
		rec.DateCreated, rec.Username, rec.UpdateType, rec.ProductDescription,
		rec.ProductSKU, rec.ProductUPC, rec.OldQty, rec.NewQty, rec.DiffQty,
	)
	if err != nil {
		return fmt.Errorf("%w: recording inventory update for UPC %s: %v", ErrConnector, rec.ProductUPC, err)
	}
	return nil
}

// GetPendingQuotations returns quotation index entries created within the
// trailing 60-day window, excluding terminal statuses (a NULL status counts
// as pending) and requiring both legacy linkage columns to be populated.
// The WHERE clause is inherited from the legacy schema and must stay as-is.
func (c *adminConnector) GetPendingQuotations(ctx context.Context) ([]models.PendingQuotation, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT QuotationNumber, SourceDB, Dop1
	          FROM QuotationsStatus
	          WHERE DateCreate >= DATEADD(day, -60, GETDATE())
	            AND (Status IS NULL OR Status NOT IN ('CONVERTED', 'DELETED'))
	            AND Dop2 IS NOT NULL AND Dop2 != ''
	            AND Dop3 IS NOT NULL AND Dop3 != ''`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pending quotations: %v", ErrConnector, err)
	}
	defer rows.Close()

	quotations := []models.PendingQuotation{}
	for rows.Next() {
		var number, sourceDB, ref sql.NullString
		if err := rows.Scan(&number, &sourceDB, &ref); err != nil {
			return nil, fmt.Errorf("%w: scanning pending quotation: %v", ErrConnector, err)
		}
		quotations = append(quotations, models.PendingQuotation{
			QuotationNumber:     number.String,
			SourceStoreNickname: sourceDB.String,
			QuotationRef:        ref.String,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pending quotations: %v", ErrConnector, err)
	}
	return quotations, nil
}

// TestConnection verifies the admin database answers.
func (c *adminConnector) TestConnection(ctx context.Context) error {
	return c.cfg.testConnection(ctx)
}
