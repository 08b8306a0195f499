package ports

import (
	"context"

	"github.com/bft-labs/linehost/internal/domain"
)

// ConfigLoader loads the main application settings.
type ConfigLoader interface {
	// Load reads and parses the settings.
	// On failure the error text is shown to the operator verbatim.
	Load(ctx context.Context) (*domain.Settings, error)
}
