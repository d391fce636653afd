package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"
)

// maxQuotationWorkers bounds the cross-store quotation fan-out. Each worker
// opens its own connection to an independent store database, so the limit
// caps simultaneous outbound connections, not correctness.
const maxQuotationWorkers = 4

// --- DTOs ---

// QuotationAggregation is the itemized cross-store quotation contribution
// for one UPC. TotalQty sums only the entries that resolved to a quantity;
// unresolved or failed entries stay in the list with a nil quantity.
type QuotationAggregation struct {
	Quotations []models.QuotationContribution `json:"quotations"`
	TotalQty   float64                        `json:"total_qty"`
}

// PurchaseOrderAggregation is the itemized pending-PO contribution for one
// UPC, gathered from the primary store only.
type PurchaseOrderAggregation struct {
	PurchaseOrders []models.PurchaseOrderContribution `json:"purchase_orders"`
	TotalQty       float64                            `json:"total_qty"`
}

// BinAggregation is the summed bin-location quantity for one UPC.
type BinAggregation struct {
	TotalQty float64 `json:"total_qty"`
}

// --- AggregationService Interface ---
type AggregationService interface {
	AggregateQuotations(ctx context.Context, upc string) (*QuotationAggregation, error)
	AggregatePurchaseOrders(ctx context.Context, upc string) (*PurchaseOrderAggregation, error)
	AggregateBinLocations(ctx context.Context, upc string) (*BinAggregation, error)
}

// --- aggregationService Implementation ---
type aggregationService struct {
	storeRepo         repositories.StoreRepository
	adminCfgRepo      repositories.AdminConfigRepository
	newAdminConnector AdminConnectorFactory
	newStoreConnector StoreConnectorFactory
}

// NewAggregationService creates a new instance of AggregationService.
func NewAggregationService(storeRepo repositories.StoreRepository, adminCfgRepo repositories.AdminConfigRepository,
	adminFactory AdminConnectorFactory, storeFactory StoreConnectorFactory) AggregationService {
	return &aggregationService{
		storeRepo:         storeRepo,
		adminCfgRepo:      adminCfgRepo,
		newAdminConnector: adminFactory,
		newStoreConnector: storeFactory,
	}
}

// quotationTask is one resolvable entry of the admin quotation index.
type quotationTask struct {
	quotation   models.PendingQuotation
	quotationID int64
}

// AggregateQuotations fetches the admin-side pending-quotation index and
// resolves each entry against its source store. Entries pointing at a store
// the registry does not know are itemized with store_configured=false and
// contribute nothing; per-entry connector failures are itemized with their
// error and likewise contribute nothing. Only fetching the index itself is
// fatal.
func (s *aggregationService) AggregateQuotations(ctx context.Context, upc string) (*QuotationAggregation, error) {
	cfg, err := s.adminCfgRepo.GetAdminDBConfig()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminDBNotConfigured
		}
		return nil, fmt.Errorf("failed to load admin DB config: %w", err)
	}

	pending, err := s.newAdminConnector(cfg).GetPendingQuotations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending quotations: %w", err)
	}

	tasks := make([]quotationTask, 0, len(pending))
	for _, quotation := range pending {
		if quotation.SourceStoreNickname == "" || quotation.QuotationRef == "" {
			continue
		}
		id, err := quotation.ForeignQuotationID()
		if err != nil {
			// Legacy rows sometimes carry junk in the reference column.
			continue
		}
		tasks = append(tasks, quotationTask{quotation: quotation, quotationID: id})
	}

	agg := &QuotationAggregation{Quotations: []models.QuotationContribution{}}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxQuotationWorkers)

	for _, task := range tasks {
		wg.Add(1)
		go func(task quotationTask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			contribution, qty := s.resolveQuotation(ctx, task, upc)

			mu.Lock()
			defer mu.Unlock()
			if contribution != nil {
				agg.Quotations = append(agg.Quotations, *contribution)
			}
			agg.TotalQty += qty
		}(task)
	}
	wg.Wait()

	return agg, nil
}

// resolveQuotation looks up one quotation's quantity in its source store.
// It returns the itemized contribution (nil when the entry has no lines for
// the UPC) and the quantity to add to the running total.
func (s *aggregationService) resolveQuotation(ctx context.Context, task quotationTask, upc string) (*models.QuotationContribution, float64) {
	store, err := s.storeRepo.GetStoreByNickname(task.quotation.SourceStoreNickname)
	if err != nil {
		message := "Store not configured"
		if !errors.Is(err, repositories.ErrNotFound) {
			message = err.Error()
		}
		return &models.QuotationContribution{
			SourceStore:     task.quotation.SourceStoreNickname,
			QuotationNumber: task.quotation.QuotationNumber,
			StoreConfigured: false,
			Error:           message,
		}, 0
	}

	qty, err := s.newStoreConnector(store).GetQuotationQty(ctx, task.quotationID, upc)
	if err != nil {
		return &models.QuotationContribution{
			SourceStore:     task.quotation.SourceStoreNickname,
			QuotationNumber: task.quotation.QuotationNumber,
			StoreConfigured: true,
			Error:           err.Error(),
		}, 0
	}
	if qty == nil || *qty == 0 {
		return nil, 0
	}

	return &models.QuotationContribution{
		SourceStore:     task.quotation.SourceStoreNickname,
		QuotationNumber: task.quotation.QuotationNumber,
		QtyOrdered:      qty,
		StoreConfigured: true,
	}, *qty
}

// AggregatePurchaseOrders sums pending purchase-order lines for one UPC in
// the primary store. Per-PO failures are itemized and non-fatal.
func (s *aggregationService) AggregatePurchaseOrders(ctx context.Context, upc string) (*PurchaseOrderAggregation, error) {
	store, err := s.storeRepo.GetPrimaryStore()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrimaryStoreNotConfigured
		}
		return nil, fmt.Errorf("failed to load primary store: %w", err)
	}
	conn := s.newStoreConnector(store)

	pending, err := conn.GetPendingPurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending purchase orders: %w", err)
	}

	agg := &PurchaseOrderAggregation{PurchaseOrders: []models.PurchaseOrderContribution{}}
	for _, po := range pending {
		if po.PoID == 0 {
			continue
		}

		qty, err := conn.GetPurchaseOrderQty(ctx, po.PoID, upc)
		if err != nil {
			agg.PurchaseOrders = append(agg.PurchaseOrders, models.PurchaseOrderContribution{
				PoNumber: po.PoNumber,
				Error:    err.Error(),
			})
			continue
		}
		if qty == nil || *qty == 0 {
			continue
		}

		agg.PurchaseOrders = append(agg.PurchaseOrders, models.PurchaseOrderContribution{
			PoNumber:   po.PoNumber,
			QtyOrdered: qty,
		})
		agg.TotalQty += *qty
	}
	return agg, nil
}

// AggregateBinLocations sums bin stock for one UPC in the primary store.
func (s *aggregationService) AggregateBinLocations(ctx context.Context, upc string) (*BinAggregation, error) {
	store, err := s.storeRepo.GetPrimaryStore()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrimaryStoreNotConfigured
		}
		return nil, fmt.Errorf("failed to load primary store: %w", err)
	}

	total, err := s.newStoreConnector(store).GetBinLocationsTotal(ctx, upc)
	if err != nil {
		return nil, fmt.Errorf("failed to get bin locations total: %w", err)
	}
	return &BinAggregation{TotalQty: total}, nil
}
