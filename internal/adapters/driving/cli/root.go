// Package cli provides the jsonstore command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driving"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/logger"
)

// Opener builds a data provider from the configuration file at path. An
// empty path selects the default location.
type Opener func(path string) (driving.DataProvider, error)

var (
	version = "dev"

	configPath string
	verbose    bool

	opener   Opener
	provider driving.DataProvider

	// opened is set when provider was built by opener and must be closed.
	opened bool
)

var rootCmd = &cobra.Command{
	Use:   "jsonstore",
	Short: "Inspect and edit file-backed item trees",
	Long: `jsonstore reads and edits hierarchical items stored as JSON files.

Each configured mapping owns one backing file. Every change is written
back to its file immediately.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default ~/.jsonstore/jsonstore.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print loads and commits to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetOpener sets how the data provider is built on first use.
func SetOpener(o Opener) {
	opener = o
}

// SetProvider sets an already built data provider.
func SetProvider(p driving.DataProvider) {
	provider = p
	opened = false
}

// Execute runs the root command and closes a provider it opened.
func Execute() error {
	defer closeProvider()
	return rootCmd.Execute()
}

// dataProvider returns the provider, opening it on first use.
func dataProvider() (driving.DataProvider, error) {
	if provider != nil {
		return provider, nil
	}
	if opener == nil {
		return nil, errors.New("data provider not configured")
	}
	p, err := opener(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open data provider: %w", err)
	}
	provider = p
	opened = true
	return provider, nil
}

func closeProvider() {
	if provider == nil || !opened {
		return
	}
	if err := provider.Close(); err != nil {
		logger.Warn("Closing data provider: %v", err)
	}
	provider = nil
	opened = false
}
