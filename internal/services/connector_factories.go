package services

import (
	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/models"
)

// AdminConnectorFactory builds an admin connector from a saved configuration.
// The router wires connectors.NewAdminConnector; tests substitute fakes.
type AdminConnectorFactory func(cfg *models.AdminDBConfig) connectors.AdminConnector

// StoreConnectorFactory builds a store connector from a registry record.
type StoreConnectorFactory func(store *models.StoreConnection) connectors.StoreConnector
