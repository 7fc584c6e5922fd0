package driven

import "github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"

// ConfigStore loads the provider configuration.
type ConfigStore interface {
	// Load reads and decodes the configuration file.
	Load() (*domain.ProviderConfig, error)

	// Path returns the configuration file path.
	Path() string

	// Dir returns the directory relative paths are resolved against.
	Dir() string
}
