package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "jsonstore.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore reads the provider configuration from a TOML or YAML file,
// chosen by extension. Unknown keys are rejected.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a config store for path.
// If path is empty, defaults to ~/.jsonstore/jsonstore.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".jsonstore", DefaultFileName)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &ConfigStore{filePath: abs}, nil
}

// Load reads and decodes the configuration file.
func (s *ConfigStore) Load() (*domain.ProviderConfig, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: configuration file %s", domain.ErrNotFound, s.filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var cfg domain.ProviderConfig
	switch ext := strings.ToLower(filepath.Ext(s.filePath)); ext {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: unsupported configuration format %q", domain.ErrInvalidConfiguration, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidConfiguration, s.filePath, err)
	}
	return &cfg, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Dir returns the directory holding the configuration file.
func (s *ConfigStore) Dir() string {
	return filepath.Dir(s.filePath)
}
