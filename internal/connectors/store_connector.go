package connectors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruolez/inventory-update/internal/models"
)

// StoreConnector is the uniform query interface over one store database:
// the item master, quotation details, purchase orders and bin locations.
type StoreConnector interface {
	LookupProductByUPC(ctx context.Context, upc string) (*models.Product, error)
	GetProductByID(ctx context.Context, productID int64) (*models.Product, error)
	UpdateProductQuantity(ctx context.Context, productID int64, newQuantity float64, lastCountDate time.Time) error
	GetQuotationQty(ctx context.Context, quotationID int64, upc string) (*float64, error)
	GetPendingPurchaseOrders(ctx context.Context) ([]models.PendingPurchaseOrder, error)
	GetPurchaseOrderQty(ctx context.Context, poID int64, upc string) (*float64, error)
	GetBinLocationsTotal(ctx context.Context, upc string) (float64, error)
	TestConnection(ctx context.Context) error
}

type storeConnector struct {
	cfg mssqlConfig
}

// NewStoreConnector creates a StoreConnector for the given store connection.
func NewStoreConnector(store *models.StoreConnection) StoreConnector {
	return &storeConnector{cfg: mssqlConfig{
		Server:   store.Server,
		Database: store.Database,
		Username: store.Username,
		Password: store.Password,
	}}
}

func scanProduct(row *sql.Row, withUnits bool) (*models.Product, error) {
	product := &models.Product{}
	var sku, description sql.NullString
	var qty sql.NullFloat64
	var lastCount sql.NullTime

	var err error
	if withUnits {
		err = row.Scan(&product.ProductID, &product.UPC, &sku, &description, &qty, &lastCount, &product.UnitsPerCase)
	} else {
		err = row.Scan(&product.ProductID, &product.UPC, &sku, &description, &qty, &lastCount)
	}
	if err != nil {
		return nil, err
	}

	if sku.Valid {
		product.SKU = &sku.String
	}
	if description.Valid {
		product.Description = &description.String
	}
	if qty.Valid {
		product.QuantityOnHand = &qty.Float64
	}
	if lastCount.Valid {
		product.LastCountDate = &lastCount.Time
	}
	return product, nil
}

// LookupProductByUPC finds a product in the item master by its barcode.
func (c *storeConnector) LookupProductByUPC(ctx context.Context, upc string) (*models.Product, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ProductID, ProductUPC, ProductSKU, ProductDescription,
	                 QuantOnHand, LastCountDate, ISNULL(UnitQty2, 0) AS UnitQty2
	          FROM Items_tbl
	          WHERE ProductUPC = @p1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, upc), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: looking up product by UPC %s: %v", ErrConnector, upc, err)
	}
	return product, nil
}

// GetProductByID retrieves a product by its item master id.
func (c *storeConnector) GetProductByID(ctx context.Context, productID int64) (*models.Product, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ProductID, ProductUPC, ProductSKU, ProductDescription,
	                 QuantOnHand, LastCountDate
	          FROM Items_tbl
	          WHERE ProductID = @p1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, productID), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrConnector, productID, err)
	}
	return product, nil
}

// UpdateProductQuantity writes a new on-hand quantity and count date.
func (c *storeConnector) UpdateProductQuantity(ctx context.Context, productID int64, newQuantity float64, lastCountDate time.Time) error {
	db, err := c.cfg.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `UPDATE Items_tbl
	          SET QuantOnHand = @p1, LastCountDate = @p2
	          WHERE ProductID = @p3`

	result, err := db.ExecContext(ctx, query, newQuantity, lastCountDate, productID)
	if err != nil {
		return fmt.Errorf("%w: updating quantity for product ID %d: %v", ErrConnector, productID, err)
	}
	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetQuotationQty sums the quantity of all lines for one product in one
// quotation. Returns nil when the quotation has no lines for the product.
func (c *storeConnector) GetQuotationQty(ctx context.Context, quotationID int64, upc string) (*float64, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT SUM(Qty) AS Qty
	          FROM QuotationsDetails_tbl
	          WHERE QuotationID = @p1 AND ProductUPC = @p2`

	var qty sql.NullFloat64
	if err := db.QueryRowContext(ctx, query, quotationID, upc).Scan(&qty); err != nil {
		return nil, fmt.Errorf("%w: summing quotation %d lines for UPC %s: %v", ErrConnector, quotationID, upc, err)
	}
	if !qty.Valid {
		return nil, nil
	}
	return &qty.Float64, nil
}

// GetPendingPurchaseOrders returns not-yet-received purchase orders from the
// trailing 90-day window. Status 0 means not received in the store schema.
func (c *storeConnector) GetPendingPurchaseOrders(ctx context.Context) ([]models.PendingPurchaseOrder, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT PoID, PoNumber
	          FROM PurchaseOrders_tbl
	          WHERE PoDate >= DATEADD(day, -90, GETDATE())
	            AND Status = 0`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pending purchase orders: %v", ErrConnector, err)
	}
	defer rows.Close()

	orders := []models.PendingPurchaseOrder{}
	for rows.Next() {
		var order models.PendingPurchaseOrder
		var number sql.NullString
		if err := rows.Scan(&order.PoID, &number); err != nil {
			return nil, fmt.Errorf("%w: scanning pending purchase order: %v", ErrConnector, err)
		}
		order.PoNumber = number.String
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pending purchase orders: %v", ErrConnector, err)
	}
	return orders, nil
}

// GetPurchaseOrderQty sums the ordered quantity of all lines for one product
// in one purchase order. Returns nil when the PO has no lines for the product.
func (c *storeConnector) GetPurchaseOrderQty(ctx context.Context, poID int64, upc string) (*float64, error) {
	db, err := c.cfg.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT SUM(QtyOrdered) AS QtyOrdered
	          FROM PurchaseOrdersDetails_tbl
	          WHERE PoID = @p1 AND ProductUPC = @p2`

	var qty sql.NullFloat64
	if err := db.QueryRowContext(ctx, query, poID, upc).Scan(&qty); err != nil {
		return nil, fmt.Errorf("%w: summing PO %d lines for UPC %s: %v", ErrConnector, poID, upc, err)
	}
	if !qty.Valid {
		return nil, nil
	}
	return &qty.Float64, nil
}

// GetBinLocationsTotal sums the bin stock for a product as case count times
// units per case, joined from the item master, with NULLs coalescing to zero
// on both operands.
func (c *storeConnector) GetBinLocationsTotal(ctx context.Context, upc string) (float64, error) {
	db, err := c.cfg.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT SUM(ISNULL(bl.Qty_Cases, 0) * ISNULL(i.UnitQty2, 0)) AS total_qty
	          FROM Items_BinLocations bl
	          LEFT JOIN Items_tbl i ON bl.ProductUPC = i.ProductUPC
	          WHERE bl.ProductUPC = @p1`

	var total sql.NullFloat64
	if err := db.QueryRowContext(ctx, query, upc).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing bin locations for UPC %s: %v", ErrConnector, upc, err)
	}
	return total.Float64, nil
}

// TestConnection verifies the store database answers.
func (c *storeConnector) TestConnection(ctx context.Context) error {
	return c.cfg.testConnection(ctx)
}
