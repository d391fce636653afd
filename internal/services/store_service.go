package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrStoreValidation  = errors.New("store connection data validation error")
	ErrNicknameExists   = errors.New("store nickname already exists")
	ErrConfigValidation = errors.New("admin DB config validation error")
)

// --- DTOs ---

// CreateStoreRequest DTO
type CreateStoreRequest struct {
	Nickname  string `json:"nickname" binding:"required"`
	Server    string `json:"server" binding:"required"`
	Database  string `json:"database" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateStoreRequest DTO; nil fields are left unchanged.
type UpdateStoreRequest struct {
	Nickname  *string `json:"nickname"`
	Server    *string `json:"server"`
	Database  *string `json:"database"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	IsPrimary *bool   `json:"is_primary"`
	IsActive  *bool   `json:"is_active"`
}

// AdminDBConfigRequest DTO
type AdminDBConfigRequest struct {
	Server   string `json:"server" binding:"required"`
	Database string `json:"database" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

// ConfigStatus reports whether the system is ready to reconcile.
type ConfigStatus struct {
	AdminDBConfigured      bool `json:"admin_db_configured"`
	PrimaryStoreConfigured bool `json:"primary_store_configured"`
}

// --- StoreService Interface ---
type StoreService interface {
	GetStores() ([]models.StoreConnection, error)
	CreateStore(req CreateStoreRequest) (*models.StoreConnection, error)
	UpdateStore(id int64, req UpdateStoreRequest) error
	DeleteStore(id int64) error
	SetPrimaryStore(id int64) error
	TestStoreConnection(ctx context.Context, id int64) error
	GetAdminDBConfig() (*models.AdminDBConfig, error)
	SaveAdminDBConfig(req AdminDBConfigRequest) error
	TestAdminDBConnection(ctx context.Context, req AdminDBConfigRequest) error
	ConfigStatus() (*ConfigStatus, error)
}

// --- storeService Implementation ---
type storeService struct {
	storeRepo         repositories.StoreRepository
	adminCfgRepo      repositories.AdminConfigRepository
	db                *sql.DB
	newAdminConnector AdminConnectorFactory
	newStoreConnector StoreConnectorFactory
}

// NewStoreService creates a new instance of StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, adminCfgRepo repositories.AdminConfigRepository,
	db *sql.DB, adminFactory AdminConnectorFactory, storeFactory StoreConnectorFactory) StoreService {
	return &storeService{
		storeRepo:         storeRepo,
		adminCfgRepo:      adminCfgRepo,
		db:                db,
		newAdminConnector: adminFactory,
		newStoreConnector: storeFactory,
	}
}

// GetStores lists all store connections, primary first.
func (s *storeService) GetStores() ([]models.StoreConnection, error) {
	stores, err := s.storeRepo.GetAllStores()
	if err != nil {
		return nil, fmt.Errorf("failed to get stores: %w", err)
	}
	return stores, nil
}

// CreateStore registers a new store connection. When the new store is
// flagged primary the previous primary is cleared in the same transaction.
func (s *storeService) CreateStore(req CreateStoreRequest) (*models.StoreConnection, error) {
	for field, value := range map[string]string{
		"nickname": req.Nickname, "server": req.Server, "database": req.Database, "username": req.Username,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", ErrStoreValidation, field)
		}
	}

	store := &models.StoreConnection{
		Nickname:  strings.TrimSpace(req.Nickname),
		Server:    strings.TrimSpace(req.Server),
		Database:  strings.TrimSpace(req.Database),
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		IsPrimary: req.IsPrimary,
		IsActive:  true,
	}

	if req.IsPrimary {
		tx, err := s.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("failed to begin create-store transaction: %w", err)
		}
		defer tx.Rollback()

		if err := s.storeRepo.ClearPrimary(tx); err != nil {
			return nil, fmt.Errorf("failed to clear previous primary: %w", err)
		}
		if _, err := s.storeRepo.CreateStore(tx, store); err != nil {
			return nil, mapStoreRepoError(err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit create-store transaction: %w", err)
		}
		return store, nil
	}

	if _, err := s.storeRepo.CreateStore(s.db, store); err != nil {
		return nil, mapStoreRepoError(err)
	}
	return store, nil
}

// UpdateStore applies a partial update. Promoting a store to primary clears
// the previous primary inside the same transaction.
func (s *storeService) UpdateStore(id int64, req UpdateStoreRequest) error {
	patch := &models.StoreConnectionPatch{
		Nickname:  req.Nickname,
		Server:    req.Server,
		Database:  req.Database,
		Username:  req.Username,
		Password:  req.Password,
		IsPrimary: req.IsPrimary,
		IsActive:  req.IsActive,
	}
	if patch.IsEmpty() {
		return nil
	}

	if req.IsPrimary != nil && *req.IsPrimary {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin update-store transaction: %w", err)
		}
		defer tx.Rollback()

		if err := s.storeRepo.ClearPrimary(tx); err != nil {
			return fmt.Errorf("failed to clear previous primary: %w", err)
		}
		if err := s.storeRepo.UpdateStore(tx, id, patch); err != nil {
			return mapStoreRepoError(err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit update-store transaction: %w", err)
		}
		return nil
	}

	if err := s.storeRepo.UpdateStore(s.db, id, patch); err != nil {
		return mapStoreRepoError(err)
	}
	return nil
}

// DeleteStore removes a store connection from the registry. Ledger rows
// referencing the store keep its nickname; they are never touched.
func (s *storeService) DeleteStore(id int64) error {
	if err := s.storeRepo.DeleteStore(s.db, id); err != nil {
		return mapStoreRepoError(err)
	}
	return nil
}

// SetPrimaryStore makes the given store the single primary.
func (s *storeService) SetPrimaryStore(id int64) error {
	if err := s.storeRepo.SetPrimaryStore(id); err != nil {
		return mapStoreRepoError(err)
	}
	return nil
}

// TestStoreConnection checks that a registered store database answers.
func (s *storeService) TestStoreConnection(ctx context.Context, id int64) error {
	store, err := s.storeRepo.GetStoreByID(id)
	if err != nil {
		return mapStoreRepoError(err)
	}
	return s.newStoreConnector(store).TestConnection(ctx)
}

// GetAdminDBConfig returns the saved admin DB configuration.
func (s *storeService) GetAdminDBConfig() (*models.AdminDBConfig, error) {
	cfg, err := s.adminCfgRepo.GetAdminDBConfig()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminDBNotConfigured
		}
		return nil, fmt.Errorf("failed to get admin DB config: %w", err)
	}
	return cfg, nil
}

// SaveAdminDBConfig replaces the admin DB configuration.
func (s *storeService) SaveAdminDBConfig(req AdminDBConfigRequest) error {
	for field, value := range map[string]string{
		"server": req.Server, "database": req.Database, "username": req.Username,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrConfigValidation, field)
		}
	}

	cfg := &models.AdminDBConfig{
		Server:   strings.TrimSpace(req.Server),
		Database: strings.TrimSpace(req.Database),
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}
	if err := s.adminCfgRepo.SaveAdminDBConfig(cfg); err != nil {
		return fmt.Errorf("failed to save admin DB config: %w", err)
	}
	return nil
}

// TestAdminDBConnection checks that the given admin DB coordinates answer,
// without saving them.
func (s *storeService) TestAdminDBConnection(ctx context.Context, req AdminDBConfigRequest) error {
	for field, value := range map[string]string{
		"server": req.Server, "database": req.Database, "username": req.Username,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrConfigValidation, field)
		}
	}

	cfg := &models.AdminDBConfig{
		Server:   strings.TrimSpace(req.Server),
		Database: strings.TrimSpace(req.Database),
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}
	return s.newAdminConnector(cfg).TestConnection(ctx)
}

// ConfigStatus reports which of the two source systems are configured.
func (s *storeService) ConfigStatus() (*ConfigStatus, error) {
	status := &ConfigStatus{}

	cfg, err := s.adminCfgRepo.GetAdminDBConfig()
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get admin DB config: %w", err)
	}
	status.AdminDBConfigured = cfg != nil && cfg.Server != ""

	if _, err := s.storeRepo.GetPrimaryStore(); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to get primary store: %w", err)
		}
	} else {
		status.PrimaryStoreConfigured = true
	}
	return status, nil
}

func mapStoreRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrStoreNotFound
	}
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return fmt.Errorf("%w: %v", ErrNicknameExists, err)
	}
	return fmt.Errorf("store registry operation failed: %w", err)
}
