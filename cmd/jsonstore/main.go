// Command jsonstore inspects and edits file-backed item trees.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/codec/jsoncodec"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/config/file"
	filestore "github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/storage/file"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/storage/memory"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/storage/sqlite"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/watch"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driving/cli"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetOpener(open)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// open builds a data provider from the configuration file at path.
func open(path string) (driving.DataProvider, error) {
	store, err := file.NewConfigStore(path)
	if err != nil {
		return nil, err
	}
	return build(store)
}

// build wires the adapters and services for the configuration in store.
func build(store driven.ConfigStore) (driving.DataProvider, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	specs, err := cfg.Resolve(store.Dir())
	if err != nil {
		return nil, err
	}
	defs, err := cfg.FieldDefinitions()
	if err != nil {
		return nil, err
	}

	journal, err := openJournal(cfg, store.Dir())
	if err != nil {
		return nil, err
	}

	snapshots := filestore.NewSnapshotStore()
	mappings, err := services.OpenMappings(specs, services.MappingDeps{
		Codec:     jsoncodec.New(),
		Snapshots: snapshots,
		Journal:   journal,
	})
	if err != nil {
		return nil, closeOnError(err, journal)
	}

	watcher, err := watch.New()
	if err != nil {
		return nil, closeOnError(err, journal)
	}

	p, err := services.NewProvider(mappings, services.ProviderOptions{
		Fields:    services.NewFieldRegistry(defs...),
		Journal:   journal,
		Watcher:   watcher,
		Snapshots: snapshots,
	})
	if err != nil {
		return nil, closeOnError(err, journal, watcher)
	}
	return p, nil
}

// openJournal returns the configured commit journal, or nil when disabled.
func openJournal(cfg *domain.ProviderConfig, base string) (driven.CommitJournal, error) {
	switch cfg.Journal.Driver {
	case domain.JournalDisabled:
		return nil, nil
	case domain.JournalMemory:
		return memory.NewJournal(), nil
	case domain.JournalSQLite:
		path := cfg.JournalPath(base)
		if path == "" {
			path = filepath.Join(base, sqlite.DefaultFileName)
		}
		journal, err := sqlite.NewJournal(path)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		return journal, nil
	default:
		return nil, fmt.Errorf("%w: unknown journal driver %q", domain.ErrInvalidConfiguration, cfg.Journal.Driver)
	}
}

type closer interface{ Close() error }

func closeOnError(err error, closers ...closer) error {
	errs := []error{err}
	for _, c := range closers {
		if c != nil {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
