package services

import "errors"

// Configuration errors shared by the services that talk to source databases.
// Both map to a 503 at the API layer: the system is reachable but cannot do
// useful work until the operator finishes setup.
var (
	ErrAdminDBNotConfigured      = errors.New("admin database not configured")
	ErrPrimaryStoreNotConfigured = errors.New("primary store not configured")
)
