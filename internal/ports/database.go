package ports

import "github.com/bft-labs/linehost/internal/domain"

// DatabaseProvider provisions database connection handles.
type DatabaseProvider interface {
	// Provision returns a handle for the connection string.
	// It must not fail: construction problems surface when the handle is used.
	Provision(connectionString string) domain.Resource
}
