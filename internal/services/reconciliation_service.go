package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"
	"github.com/ruolez/inventory-update/pkg/utils"
)

// --- Custom Service Errors ---
var (
	ErrProductNotFound          = errors.New("product not found")
	ErrReconciliationValidation = errors.New("reconciliation validation error")
	ErrInvalidThreshold         = errors.New("threshold must be a non-negative number")
)

// defaultQuantityThreshold applies when the setting has never been saved.
const defaultQuantityThreshold = 10

// --- DTOs ---

// CheckDifferenceRequest carries the quantities for a pre-flight variance
// check. NewQuantity is the physically counted value; the aggregate fields
// default to zero when the caller skipped an aggregation.
type CheckDifferenceRequest struct {
	ProductID     *int64   `json:"product_id" binding:"required"`
	NewQuantity   *float64 `json:"new_quantity" binding:"required"`
	QuotationsQty *float64 `json:"quotations_qty"`
	TopBinsQty    *float64 `json:"top_bins_qty"`
}

// CheckDifferenceResult DTO
type CheckDifferenceResult struct {
	OldQuantity      float64 `json:"old_quantity"`
	FinalQty         float64 `json:"final_qty"`
	Difference       float64 `json:"difference"`
	Threshold        float64 `json:"threshold"`
	ExceedsThreshold bool    `json:"exceeds_threshold"`
}

// UpdateQuantityRequest carries a reconciliation commit. The product
// identity fields are optional fallbacks used only to label a failed ledger
// row when the commit dies before the product could be read.
type UpdateQuantityRequest struct {
	ProductID          *int64   `json:"product_id" binding:"required"`
	NewQuantity        *float64 `json:"new_quantity" binding:"required"`
	QuotationsQty      *float64 `json:"quotations_qty"`
	PurchaseOrdersQty  *float64 `json:"purchase_orders_qty"`
	TopBinsQty         *float64 `json:"top_bins_qty"`
	ProductUPC         string   `json:"product_upc"`
	ProductSKU         string   `json:"product_sku"`
	ProductDescription string   `json:"product_description"`
}

// UpdateQuantityResult DTO
type UpdateQuantityResult struct {
	ProductID         int64   `json:"product_id"`
	OldQuantity       float64 `json:"old_quantity"`
	NewQuantity       float64 `json:"new_quantity"`
	UserEnteredQty    float64 `json:"user_entered_qty"`
	QuotationsQty     float64 `json:"quotations_qty"`
	PurchaseOrdersQty float64 `json:"purchase_orders_qty"`
	TopBinsQty        float64 `json:"top_bins_qty"`
	Difference        float64 `json:"difference"`
}

// --- ReconciliationService Interface ---
type ReconciliationService interface {
	LookupProductByUPC(ctx context.Context, barcode string) (*models.Product, error)
	CheckDifference(ctx context.Context, req CheckDifferenceRequest) (*CheckDifferenceResult, error)
	UpdateQuantity(ctx context.Context, username string, req UpdateQuantityRequest) (*UpdateQuantityResult, error)
	QuantityThreshold() (float64, error)
	SetQuantityThreshold(value float64) error
}

// --- reconciliationService Implementation ---
type reconciliationService struct {
	storeRepo         repositories.StoreRepository
	adminCfgRepo      repositories.AdminConfigRepository
	settingRepo       repositories.SettingRepository
	txLogRepo         repositories.TransactionLogRepository
	newAdminConnector AdminConnectorFactory
	newStoreConnector StoreConnectorFactory
	now               func() time.Time
}

// NewReconciliationService creates a new instance of ReconciliationService.
// now stamps store-side count dates and audit rows; pass nil for time.Now.
func NewReconciliationService(storeRepo repositories.StoreRepository, adminCfgRepo repositories.AdminConfigRepository,
	settingRepo repositories.SettingRepository, txLogRepo repositories.TransactionLogRepository,
	adminFactory AdminConnectorFactory, storeFactory StoreConnectorFactory, now func() time.Time) ReconciliationService {
	if now == nil {
		now = time.Now
	}
	return &reconciliationService{
		storeRepo:         storeRepo,
		adminCfgRepo:      adminCfgRepo,
		settingRepo:       settingRepo,
		txLogRepo:         txLogRepo,
		newAdminConnector: adminFactory,
		newStoreConnector: storeFactory,
		now:               now,
	}
}

func qtyOrZero(qty *float64) float64 {
	if qty == nil {
		return 0
	}
	return *qty
}

// LookupProductByUPC finds a product by barcode in the primary store.
func (s *reconciliationService) LookupProductByUPC(ctx context.Context, barcode string) (*models.Product, error) {
	store, err := s.storeRepo.GetPrimaryStore()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrimaryStoreNotConfigured
		}
		return nil, fmt.Errorf("failed to load primary store: %w", err)
	}

	product, err := s.newStoreConnector(store).LookupProductByUPC(ctx, barcode)
	if err != nil {
		if errors.Is(err, connectors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	return product, nil
}

// CheckDifference computes what a commit would write and whether the change
// would exceed the variance threshold. It performs reads only; calling it
// any number of times leaves no trace in the ledger or the store.
func (s *reconciliationService) CheckDifference(ctx context.Context, req CheckDifferenceRequest) (*CheckDifferenceResult, error) {
	if req.ProductID == nil {
		return nil, fmt.Errorf("%w: product id is required", ErrReconciliationValidation)
	}
	if req.NewQuantity == nil {
		return nil, fmt.Errorf("%w: new quantity is required", ErrReconciliationValidation)
	}

	finalQty := *req.NewQuantity + qtyOrZero(req.QuotationsQty) + qtyOrZero(req.TopBinsQty)

	store, err := s.storeRepo.GetPrimaryStore()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrimaryStoreNotConfigured
		}
		return nil, fmt.Errorf("failed to load primary store: %w", err)
	}

	product, err := s.newStoreConnector(store).GetProductByID(ctx, *req.ProductID)
	if err != nil {
		if errors.Is(err, connectors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("difference check failed: %w", err)
	}

	oldQuantity := qtyOrZero(product.QuantityOnHand)
	difference := finalQty - oldQuantity

	threshold, err := s.QuantityThreshold()
	if err != nil {
		return nil, err
	}

	exceeds := math.Abs(difference) > threshold

	return &CheckDifferenceResult{
		OldQuantity:      oldQuantity,
		FinalQty:         finalQty,
		Difference:       difference,
		Threshold:        threshold,
		ExceedsThreshold: exceeds,
	}, nil
}

// UpdateQuantity commits a reconciled count. The final quantity is the user
// entry plus quotation and bin adjustments; purchase orders are context
// only and never change the committed value. The store write and the admin
// audit write are two independent systems with no shared transaction: the
// store write must settle before the audit write starts, and when anything
// fails after the product read the attempt is still recorded as a failed
// ledger row with the store-side state marked unknown.
func (s *reconciliationService) UpdateQuantity(ctx context.Context, username string, req UpdateQuantityRequest) (*UpdateQuantityResult, error) {
	if req.ProductID == nil {
		return nil, fmt.Errorf("%w: product id is required", ErrReconciliationValidation)
	}
	if req.NewQuantity == nil {
		return nil, fmt.Errorf("%w: new quantity is required", ErrReconciliationValidation)
	}

	userEnteredQty := *req.NewQuantity
	quotationsQty := qtyOrZero(req.QuotationsQty)
	purchaseOrdersQty := qtyOrZero(req.PurchaseOrdersQty)
	topBinsQty := qtyOrZero(req.TopBinsQty)

	finalQty := userEnteredQty + quotationsQty + topBinsQty

	store, err := s.storeRepo.GetPrimaryStore()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrimaryStoreNotConfigured
		}
		return nil, fmt.Errorf("failed to load primary store: %w", err)
	}
	cfg, err := s.adminCfgRepo.GetAdminDBConfig()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminDBNotConfigured
		}
		return nil, fmt.Errorf("failed to load admin DB config: %w", err)
	}

	storeConn := s.newStoreConnector(store)
	adminConn := s.newAdminConnector(cfg)

	product, err := storeConn.GetProductByID(ctx, *req.ProductID)
	if err != nil {
		if errors.Is(err, connectors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		s.logFailure(username, store.Nickname, req, finalQty, err)
		return nil, fmt.Errorf("update failed: %w", err)
	}

	oldQuantity := qtyOrZero(product.QuantityOnHand)
	difference := finalQty - oldQuantity
	currentTime := s.now()

	if err := storeConn.UpdateProductQuantity(ctx, *req.ProductID, finalQty, currentTime); err != nil {
		s.logFailure(username, store.Nickname, req, finalQty, err)
		return nil, fmt.Errorf("update failed: %w", err)
	}

	err = adminConn.RecordInventoryUpdate(ctx, connectors.InventoryUpdateRecord{
		Username:           username,
		UpdateType:         "Inventory",
		ProductDescription: stringOrEmpty(product.Description),
		ProductSKU:         stringOrEmpty(product.SKU),
		ProductUPC:         product.UPC,
		OldQty:             oldQuantity,
		NewQty:             finalQty,
		DiffQty:            difference,
		DateCreated:        currentTime,
	})
	if err != nil {
		// The store write already landed; the failed ledger row below is
		// the only record of the resulting store/admin divergence.
		s.logFailure(username, store.Nickname, req, finalQty, err)
		return nil, fmt.Errorf("update failed: %w", err)
	}

	entry := &models.TransactionLogEntry{
		Username:           username,
		StoreNickname:      store.Nickname,
		ProductID:          *req.ProductID,
		ProductUPC:         product.UPC,
		ProductSKU:         stringOrEmpty(product.SKU),
		ProductDescription: stringOrEmpty(product.Description),
		OldQuantity:        &oldQuantity,
		NewQuantity:        &finalQty,
		Difference:         &difference,
		UserEnteredQty:     &userEnteredQty,
		QuotationsQty:      quotationsQty,
		PurchaseOrdersQty:  purchaseOrdersQty,
		TopBinsQty:         topBinsQty,
		Status:             models.TransactionStatusSuccess,
	}
	if err := s.txLogRepo.LogTransaction(entry); err != nil {
		s.logFailure(username, store.Nickname, req, finalQty, err)
		return nil, fmt.Errorf("update failed: %w", err)
	}

	return &UpdateQuantityResult{
		ProductID:         *req.ProductID,
		OldQuantity:       oldQuantity,
		NewQuantity:       finalQty,
		UserEnteredQty:    userEnteredQty,
		QuotationsQty:     quotationsQty,
		PurchaseOrdersQty: purchaseOrdersQty,
		TopBinsQty:        topBinsQty,
		Difference:        difference,
	}, nil
}

// logFailure writes a failed ledger row for a commit that died after the
// product read. Old quantity and difference stay null because the store-side
// outcome is unknown; the new quantity records what the attempt tried to
// write. A failure of this write itself is logged and swallowed so a double
// fault cannot cascade.
func (s *reconciliationService) logFailure(username, storeNickname string, req UpdateQuantityRequest, finalQty float64, cause error) {
	message := cause.Error()
	entry := &models.TransactionLogEntry{
		Username:           username,
		StoreNickname:      storeNickname,
		ProductID:          *req.ProductID,
		ProductUPC:         req.ProductUPC,
		ProductSKU:         req.ProductSKU,
		ProductDescription: req.ProductDescription,
		NewQuantity:        &finalQty,
		UserEnteredQty:     req.NewQuantity,
		QuotationsQty:      qtyOrZero(req.QuotationsQty),
		PurchaseOrdersQty:  qtyOrZero(req.PurchaseOrdersQty),
		TopBinsQty:         qtyOrZero(req.TopBinsQty),
		Status:             models.TransactionStatusFailed,
		ErrorMessage:       &message,
	}
	if err := s.txLogRepo.LogTransaction(entry); err != nil {
		utils.LogError(err, "UpdateQuantity: failed to record failed reconciliation attempt")
	}
}

// QuantityThreshold returns the variance threshold, defaulting when unset.
func (s *reconciliationService) QuantityThreshold() (float64, error) {
	setting, err := s.settingRepo.GetSetting(models.SettingKeyQuantityThreshold)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return defaultQuantityThreshold, nil
		}
		return 0, fmt.Errorf("failed to get quantity threshold: %w", err)
	}

	threshold, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed quantity threshold setting %q: %w", setting.Value, err)
	}
	return threshold, nil
}

// SetQuantityThreshold saves a new variance threshold.
func (s *reconciliationService) SetQuantityThreshold(value float64) error {
	if value < 0 {
		return ErrInvalidThreshold
	}
	if err := s.settingRepo.SaveSetting(models.SettingKeyQuantityThreshold, strconv.FormatFloat(value, 'f', -1, 64)); err != nil {
		return fmt.Errorf("failed to save quantity threshold: %w", err)
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
