// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: provider configuration in TOML or YAML
package file
