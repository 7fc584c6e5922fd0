package memory

import (
	"sync"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu     sync.RWMutex
	config domain.ProviderConfig
	dir    string
}

// NewConfigStore creates a config store serving cfg, with relative paths
// resolved against dir.
func NewConfigStore(cfg domain.ProviderConfig, dir string) *ConfigStore {
	return &ConfigStore{config: cfg, dir: dir}
}

// Set replaces the served configuration.
func (s *ConfigStore) Set(cfg domain.ProviderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// Load returns a copy of the configuration.
func (s *ConfigStore) Load() (*domain.ProviderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.config
	cfg.Mappings = append([]domain.MappingConfig(nil), s.config.Mappings...)
	cfg.Fields = append([]domain.FieldConfig(nil), s.config.Fields...)
	return &cfg, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Dir returns the directory relative paths resolve against.
func (s *ConfigStore) Dir() string {
	return s.dir
}
