// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TreeCodec: Encodes and decodes item trees (JSON)
//   - SnapshotStore: Reads and atomically replaces backing files
//   - ConfigStore: Provider configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CommitJournal: Audit trail of commits (SQLite or memory)
//   - FileWatcher: External modification detection (fsnotify)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
