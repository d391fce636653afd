package services

import (
	"context"
	"time"

	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func bptr(v bool) *bool       { return &v }
func iptr(v int64) *int64     { return &v }

// --- repository fakes ---

type fakeStoreRepository struct {
	primary       *models.StoreConnection
	primaryErr    error
	byNickname    map[string]*models.StoreConnection
	byID          map[int64]*models.StoreConnection
	stores        []models.StoreConnection
	createErr     error
	updateErr     error
	deleteErr     error
	setPrimaryErr error
}

func (f *fakeStoreRepository) CreateStore(_ repositories.SQLExecutor, store *models.StoreConnection) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	store.ID = int64(len(f.stores) + 1)
	f.stores = append(f.stores, *store)
	return store.ID, nil
}

func (f *fakeStoreRepository) GetStoreByID(id int64) (*models.StoreConnection, error) {
	if store, ok := f.byID[id]; ok {
		return store, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStoreRepository) GetStoreByNickname(nickname string) (*models.StoreConnection, error) {
	if store, ok := f.byNickname[nickname]; ok {
		return store, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStoreRepository) GetPrimaryStore() (*models.StoreConnection, error) {
	if f.primaryErr != nil {
		return nil, f.primaryErr
	}
	if f.primary == nil {
		return nil, repositories.ErrNotFound
	}
	return f.primary, nil
}

func (f *fakeStoreRepository) GetAllStores() ([]models.StoreConnection, error) {
	return f.stores, nil
}

func (f *fakeStoreRepository) UpdateStore(_ repositories.SQLExecutor, _ int64, _ *models.StoreConnectionPatch) error {
	return f.updateErr
}

func (f *fakeStoreRepository) DeleteStore(_ repositories.SQLExecutor, _ int64) error {
	return f.deleteErr
}

func (f *fakeStoreRepository) SetPrimaryStore(_ int64) error {
	return f.setPrimaryErr
}

func (f *fakeStoreRepository) ClearPrimary(_ repositories.SQLExecutor) error {
	return nil
}

type fakeAdminConfigRepository struct {
	cfg     *models.AdminDBConfig
	getErr  error
	saveErr error
	saved   *models.AdminDBConfig
}

func (f *fakeAdminConfigRepository) GetAdminDBConfig() (*models.AdminDBConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.cfg == nil {
		return nil, repositories.ErrNotFound
	}
	return f.cfg, nil
}

func (f *fakeAdminConfigRepository) SaveAdminDBConfig(cfg *models.AdminDBConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = cfg
	return nil
}

type fakeSettingRepository struct {
	settings map[string]string
	getErr   error
	saveErr  error
}

func (f *fakeSettingRepository) GetSetting(key string) (*models.ApplicationSetting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	value, ok := f.settings[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.ApplicationSetting{Key: key, Value: value}, nil
}

func (f *fakeSettingRepository) SaveSetting(key, value string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.settings == nil {
		f.settings = map[string]string{}
	}
	f.settings[key] = value
	return nil
}

func (f *fakeSettingRepository) EnsureDefaultSettings() error { return nil }

type fakeTransactionLogRepository struct {
	entries []models.TransactionLogEntry
	logErr  error
}

func (f *fakeTransactionLogRepository) LogTransaction(entry *models.TransactionLogEntry) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeTransactionLogRepository) GetTransactions(_, _ int, _, _ *string) ([]models.TransactionLogEntry, error) {
	return f.entries, nil
}

type createdSession struct {
	token     string
	username  string
	fullName  string
	expiresAt time.Time
}

type fakeSessionRepository struct {
	created   []createdSession
	sessions  map[string]*models.Session
	createErr error
	sweepErr  error
	swept     int64
	deleted   []string
}

func (f *fakeSessionRepository) CreateSession(token, username, fullName string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, createdSession{token: token, username: username, fullName: fullName, expiresAt: expiresAt})
	return nil
}

func (f *fakeSessionRepository) GetSessionByToken(token string) (*models.Session, error) {
	if session, ok := f.sessions[token]; ok {
		return session, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSessionRepository) DeleteSession(token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeSessionRepository) DeleteExpiredSessions() (int64, error) {
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	return f.swept, nil
}

// --- connector fakes ---

type fakeAdminConnector struct {
	user       *models.AdminUser
	authErr    error
	recorded   []connectors.InventoryUpdateRecord
	recordErr  error
	pending    []models.PendingQuotation
	pendingErr error
	testErr    error
}

func (f *fakeAdminConnector) AuthenticateUser(_ context.Context, _ string) (*models.AdminUser, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

func (f *fakeAdminConnector) RecordInventoryUpdate(_ context.Context, rec connectors.InventoryUpdateRecord) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, rec)
	return nil
}

func (f *fakeAdminConnector) GetPendingQuotations(_ context.Context) ([]models.PendingQuotation, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakeAdminConnector) TestConnection(_ context.Context) error { return f.testErr }

type productUpdate struct {
	productID int64
	qty       float64
	when      time.Time
}

type fakeStoreConnector struct {
	product      *models.Product
	lookupErr    error
	getErr       error
	updateErr    error
	updates      []productUpdate
	quotationQty map[int64]*float64
	quotationErr map[int64]error
	pendingPOs   []models.PendingPurchaseOrder
	pendingPOErr error
	poQty        map[int64]*float64
	poErr        map[int64]error
	binTotal     float64
	binErr       error
	testErr      error
}

func (f *fakeStoreConnector) LookupProductByUPC(_ context.Context, _ string) (*models.Product, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.product, nil
}

func (f *fakeStoreConnector) GetProductByID(_ context.Context, _ int64) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.product, nil
}

func (f *fakeStoreConnector) UpdateProductQuantity(_ context.Context, productID int64, newQuantity float64, lastCountDate time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, productUpdate{productID: productID, qty: newQuantity, when: lastCountDate})
	return nil
}

func (f *fakeStoreConnector) GetQuotationQty(_ context.Context, quotationID int64, _ string) (*float64, error) {
	if err := f.quotationErr[quotationID]; err != nil {
		return nil, err
	}
	return f.quotationQty[quotationID], nil
}

func (f *fakeStoreConnector) GetPendingPurchaseOrders(_ context.Context) ([]models.PendingPurchaseOrder, error) {
	if f.pendingPOErr != nil {
		return nil, f.pendingPOErr
	}
	return f.pendingPOs, nil
}

func (f *fakeStoreConnector) GetPurchaseOrderQty(_ context.Context, poID int64, _ string) (*float64, error) {
	if err := f.poErr[poID]; err != nil {
		return nil, err
	}
	return f.poQty[poID], nil
}

func (f *fakeStoreConnector) GetBinLocationsTotal(_ context.Context, _ string) (float64, error) {
	if f.binErr != nil {
		return 0, f.binErr
	}
	return f.binTotal, nil
}

func (f *fakeStoreConnector) TestConnection(_ context.Context) error { return f.testErr }

// --- factory helpers ---

func adminFactoryFor(conn connectors.AdminConnector) AdminConnectorFactory {
	return func(_ *models.AdminDBConfig) connectors.AdminConnector { return conn }
}

func storeFactoryFor(conn connectors.StoreConnector) StoreConnectorFactory {
	return func(_ *models.StoreConnection) connectors.StoreConnector { return conn }
}

// storeFactoryByNickname routes each store to its own fake connector, for
// cross-store aggregation tests.
func storeFactoryByNickname(conns map[string]connectors.StoreConnector) StoreConnectorFactory {
	return func(store *models.StoreConnection) connectors.StoreConnector { return conns[store.Nickname] }
}
