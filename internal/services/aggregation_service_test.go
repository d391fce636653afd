package services

import (
	"context"
	"testing"

	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateQuotationsSumsAcrossStores(t *testing.T) {
	eastStore := &models.StoreConnection{ID: 1, Nickname: "east", IsActive: true}
	westStore := &models.StoreConnection{ID: 2, Nickname: "west", IsActive: true}

	storeRepo := &fakeStoreRepository{byNickname: map[string]*models.StoreConnection{
		"east": eastStore,
		"west": westStore,
	}}
	adminRepo := &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}
	adminConn := &fakeAdminConnector{pending: []models.PendingQuotation{
		{QuotationNumber: "Q-100", SourceStoreNickname: "east", QuotationRef: "100"},
		{QuotationNumber: "Q-200", SourceStoreNickname: "west", QuotationRef: "200"},
	}}
	conns := map[string]connectors.StoreConnector{
		"east": &fakeStoreConnector{quotationQty: map[int64]*float64{100: fptr(3)}},
		"west": &fakeStoreConnector{quotationQty: map[int64]*float64{200: fptr(4)}},
	}

	service := NewAggregationService(storeRepo, adminRepo, adminFactoryFor(adminConn), storeFactoryByNickname(conns))

	agg, err := service.AggregateQuotations(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, float64(7), agg.TotalQty)
	require.Len(t, agg.Quotations, 2)

	numbers := []string{agg.Quotations[0].QuotationNumber, agg.Quotations[1].QuotationNumber}
	assert.ElementsMatch(t, []string{"Q-100", "Q-200"}, numbers)
	for _, q := range agg.Quotations {
		assert.True(t, q.StoreConfigured)
		assert.Empty(t, q.Error)
		require.NotNil(t, q.QtyOrdered)
	}
}

func TestAggregateQuotationsUnknownStoreContributesNothing(t *testing.T) {
	eastStore := &models.StoreConnection{ID: 1, Nickname: "east", IsActive: true}
	storeRepo := &fakeStoreRepository{byNickname: map[string]*models.StoreConnection{"east": eastStore}}
	adminRepo := &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}
	adminConn := &fakeAdminConnector{pending: []models.PendingQuotation{
		{QuotationNumber: "Q-100", SourceStoreNickname: "east", QuotationRef: "100"},
		{QuotationNumber: "Q-300", SourceStoreNickname: "ghost", QuotationRef: "300"},
	}}
	conns := map[string]connectors.StoreConnector{
		"east": &fakeStoreConnector{quotationQty: map[int64]*float64{100: fptr(3)}},
	}

	service := NewAggregationService(storeRepo, adminRepo, adminFactoryFor(adminConn), storeFactoryByNickname(conns))

	agg, err := service.AggregateQuotations(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, float64(3), agg.TotalQty)
	require.Len(t, agg.Quotations, 2)

	for _, q := range agg.Quotations {
		if q.QuotationNumber == "Q-300" {
			assert.False(t, q.StoreConfigured)
			assert.Equal(t, "Store not configured", q.Error)
			assert.Nil(t, q.QtyOrdered)
		}
	}
}

func TestAggregateQuotationsConnectorFailureIsItemizedNotFatal(t *testing.T) {
	eastStore := &models.StoreConnection{ID: 1, Nickname: "east", IsActive: true}
	westStore := &models.StoreConnection{ID: 2, Nickname: "west", IsActive: true}
	storeRepo := &fakeStoreRepository{byNickname: map[string]*models.StoreConnection{
		"east": eastStore,
		"west": westStore,
	}}
	adminRepo := &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}
	adminConn := &fakeAdminConnector{pending: []models.PendingQuotation{
		{QuotationNumber: "Q-100", SourceStoreNickname: "east", QuotationRef: "100"},
		{QuotationNumber: "Q-200", SourceStoreNickname: "west", QuotationRef: "200"},
	}}
	conns := map[string]connectors.StoreConnector{
		"east": &fakeStoreConnector{quotationQty: map[int64]*float64{100: fptr(3)}},
		"west": &fakeStoreConnector{quotationErr: map[int64]error{200: assert.AnError}},
	}

	service := NewAggregationService(storeRepo, adminRepo, adminFactoryFor(adminConn), storeFactoryByNickname(conns))

	agg, err := service.AggregateQuotations(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, float64(3), agg.TotalQty)
	require.Len(t, agg.Quotations, 2)

	for _, q := range agg.Quotations {
		if q.QuotationNumber == "Q-200" {
			assert.True(t, q.StoreConfigured)
			assert.NotEmpty(t, q.Error)
			assert.Nil(t, q.QtyOrdered)
		}
	}
}

func TestAggregateQuotationsSkipsZeroAndUnresolvableEntries(t *testing.T) {
	eastStore := &models.StoreConnection{ID: 1, Nickname: "east", IsActive: true}
	storeRepo := &fakeStoreRepository{byNickname: map[string]*models.StoreConnection{"east": eastStore}}
	adminRepo := &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}
	adminConn := &fakeAdminConnector{pending: []models.PendingQuotation{
		{QuotationNumber: "Q-100", SourceStoreNickname: "east", QuotationRef: "100"},  // has no lines for the UPC
		{QuotationNumber: "Q-101", SourceStoreNickname: "east", QuotationRef: "101"},  // zero qty
		{QuotationNumber: "Q-102", SourceStoreNickname: "", QuotationRef: "102"},      // no source store
		{QuotationNumber: "Q-103", SourceStoreNickname: "east", QuotationRef: ""},     // no reference
		{QuotationNumber: "Q-104", SourceStoreNickname: "east", QuotationRef: "junk"}, // malformed reference
	}}
	conns := map[string]connectors.StoreConnector{
		"east": &fakeStoreConnector{quotationQty: map[int64]*float64{100: nil, 101: fptr(0)}},
	}

	service := NewAggregationService(storeRepo, adminRepo, adminFactoryFor(adminConn), storeFactoryByNickname(conns))

	agg, err := service.AggregateQuotations(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, float64(0), agg.TotalQty)
	assert.Empty(t, agg.Quotations)
}

func TestAggregateQuotationsRequiresAdminConfig(t *testing.T) {
	service := NewAggregationService(&fakeStoreRepository{}, &fakeAdminConfigRepository{},
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	_, err := service.AggregateQuotations(context.Background(), "041331092609")
	assert.ErrorIs(t, err, ErrAdminDBNotConfigured)
}

func TestAggregatePurchaseOrders(t *testing.T) {
	storeRepo := &fakeStoreRepository{primary: &models.StoreConnection{ID: 1, Nickname: "main", IsPrimary: true, IsActive: true}}
	adminRepo := &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}
	conn := &fakeStoreConnector{
		pendingPOs: []models.PendingPurchaseOrder{
			{PoID: 10, PoNumber: "PO-10"},
			{PoID: 11, PoNumber: "PO-11"}, // no lines for the UPC
			{PoID: 0, PoNumber: "PO-bad"}, // malformed header
			{PoID: 12, PoNumber: "PO-12"}, // query fails
		},
		poQty: map[int64]*float64{10: fptr(5)},
		poErr: map[int64]error{12: assert.AnError},
	}

	service := NewAggregationService(storeRepo, adminRepo, adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(conn))

	agg, err := service.AggregatePurchaseOrders(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, float64(5), agg.TotalQty)
	require.Len(t, agg.PurchaseOrders, 2)

	assert.Equal(t, "PO-10", agg.PurchaseOrders[0].PoNumber)
	require.NotNil(t, agg.PurchaseOrders[0].QtyOrdered)
	assert.Equal(t, float64(5), *agg.PurchaseOrders[0].QtyOrdered)

	assert.Equal(t, "PO-12", agg.PurchaseOrders[1].PoNumber)
	assert.Nil(t, agg.PurchaseOrders[1].QtyOrdered)
	assert.NotEmpty(t, agg.PurchaseOrders[1].Error)
}

func TestAggregatePurchaseOrdersRequiresPrimaryStore(t *testing.T) {
	service := NewAggregationService(&fakeStoreRepository{}, &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "s"}},
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	_, err := service.AggregatePurchaseOrders(context.Background(), "041331092609")
	assert.ErrorIs(t, err, ErrPrimaryStoreNotConfigured)
}

func TestAggregateBinLocations(t *testing.T) {
	storeRepo := &fakeStoreRepository{primary: &models.StoreConnection{ID: 1, Nickname: "main", IsPrimary: true, IsActive: true}}
	conn := &fakeStoreConnector{binTotal: 12.5}

	service := NewAggregationService(storeRepo, &fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "s"}},
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(conn))

	agg, err := service.AggregateBinLocations(context.Background(), "041331092609")
	require.NoError(t, err)
	assert.Equal(t, 12.5, agg.TotalQty)
}
