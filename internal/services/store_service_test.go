package services

import (
	"context"
	"testing"

	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStoreValidation(t *testing.T) {
	service := NewStoreService(&fakeStoreRepository{}, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	_, err := service.CreateStore(CreateStoreRequest{Nickname: "  ", Server: "srv", Database: "db", Username: "sa"})
	assert.ErrorIs(t, err, ErrStoreValidation)

	_, err = service.CreateStore(CreateStoreRequest{Nickname: "east", Server: "srv", Database: "", Username: "sa"})
	assert.ErrorIs(t, err, ErrStoreValidation)
}

func TestCreateStoreTrimsAndRegisters(t *testing.T) {
	storeRepo := &fakeStoreRepository{}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	store, err := service.CreateStore(CreateStoreRequest{
		Nickname: " east ", Server: " srv ", Database: "db", Username: "sa", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "east", store.Nickname)
	assert.Equal(t, "srv", store.Server)
	assert.True(t, store.IsActive)
	assert.NotZero(t, store.ID)
	require.Len(t, storeRepo.stores, 1)
}

func TestCreateStoreDuplicateNickname(t *testing.T) {
	storeRepo := &fakeStoreRepository{createErr: repositories.ErrDuplicateKey}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	_, err := service.CreateStore(CreateStoreRequest{Nickname: "east", Server: "srv", Database: "db", Username: "sa"})
	assert.ErrorIs(t, err, ErrNicknameExists)
}

func TestUpdateStoreEmptyPatchIsNoOp(t *testing.T) {
	storeRepo := &fakeStoreRepository{updateErr: assert.AnError}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	// Repository would fail if reached; the empty patch must short-circuit.
	assert.NoError(t, service.UpdateStore(1, UpdateStoreRequest{}))
}

func TestUpdateStoreUnknownID(t *testing.T) {
	storeRepo := &fakeStoreRepository{updateErr: repositories.ErrNotFound}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	err := service.UpdateStore(404, UpdateStoreRequest{Nickname: sptr("renamed")})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestDeleteStoreUnknownID(t *testing.T) {
	storeRepo := &fakeStoreRepository{deleteErr: repositories.ErrNotFound}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	assert.ErrorIs(t, service.DeleteStore(404), ErrStoreNotFound)
}

func TestSetPrimaryStoreUnknownID(t *testing.T) {
	storeRepo := &fakeStoreRepository{setPrimaryErr: repositories.ErrNotFound}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	assert.ErrorIs(t, service.SetPrimaryStore(404), ErrStoreNotFound)
}

func TestTestStoreConnection(t *testing.T) {
	store := &models.StoreConnection{ID: 5, Nickname: "east"}
	storeRepo := &fakeStoreRepository{byID: map[int64]*models.StoreConnection{5: store}}
	conn := &fakeStoreConnector{}
	service := NewStoreService(storeRepo, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(conn))

	assert.NoError(t, service.TestStoreConnection(context.Background(), 5))
	assert.ErrorIs(t, service.TestStoreConnection(context.Background(), 404), ErrStoreNotFound)

	conn.testErr = assert.AnError
	assert.Error(t, service.TestStoreConnection(context.Background(), 5))
}

func TestSaveAdminDBConfig(t *testing.T) {
	adminRepo := &fakeAdminConfigRepository{}
	service := NewStoreService(&fakeStoreRepository{}, adminRepo, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	err := service.SaveAdminDBConfig(AdminDBConfigRequest{Server: "", Database: "db", Username: "sa"})
	assert.ErrorIs(t, err, ErrConfigValidation)

	err = service.SaveAdminDBConfig(AdminDBConfigRequest{Server: " srv ", Database: "db", Username: "sa", Password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, adminRepo.saved)
	assert.Equal(t, "srv", adminRepo.saved.Server)
}

func TestGetAdminDBConfigNotConfigured(t *testing.T) {
	service := NewStoreService(&fakeStoreRepository{}, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	_, err := service.GetAdminDBConfig()
	assert.ErrorIs(t, err, ErrAdminDBNotConfigured)
}

func TestTestAdminDBConnection(t *testing.T) {
	adminConn := &fakeAdminConnector{}
	service := NewStoreService(&fakeStoreRepository{}, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(adminConn), storeFactoryFor(&fakeStoreConnector{}))

	err := service.TestAdminDBConnection(context.Background(), AdminDBConfigRequest{Server: "srv", Database: "db", Username: "sa"})
	assert.NoError(t, err)

	err = service.TestAdminDBConnection(context.Background(), AdminDBConfigRequest{Server: "", Database: "db", Username: "sa"})
	assert.ErrorIs(t, err, ErrConfigValidation)

	adminConn.testErr = assert.AnError
	err = service.TestAdminDBConnection(context.Background(), AdminDBConfigRequest{Server: "srv", Database: "db", Username: "sa"})
	assert.Error(t, err)
}

func TestConfigStatus(t *testing.T) {
	service := NewStoreService(&fakeStoreRepository{}, &fakeAdminConfigRepository{}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	status, err := service.ConfigStatus()
	require.NoError(t, err)
	assert.False(t, status.AdminDBConfigured)
	assert.False(t, status.PrimaryStoreConfigured)

	service = NewStoreService(
		&fakeStoreRepository{primary: &models.StoreConnection{ID: 1, Nickname: "main", IsPrimary: true}},
		&fakeAdminConfigRepository{cfg: &models.AdminDBConfig{Server: "admin-srv"}}, nil,
		adminFactoryFor(&fakeAdminConnector{}), storeFactoryFor(&fakeStoreConnector{}))

	status, err = service.ConfigStatus()
	require.NoError(t, err)
	assert.True(t, status.AdminDBConfigured)
	assert.True(t, status.PrimaryStoreConfigured)
}
