package driven

import "github.com/custodia-labs/docquery-cli/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files).
type ConfigStore interface {
	// Load reads the configuration from storage. A missing file is not
	// an error: defaults are returned instead.
	Load() (*domain.Config, error)

	// Save persists the configuration to storage.
	Save(cfg *domain.Config) error

	// Path returns the configuration file path.
	Path() string
}
