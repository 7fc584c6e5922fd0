package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Fatal Errors.
	//
	// These abort construction, loading, or a single call and are never
	// reported as an ordinary negative result.

	// ErrInvalidConfiguration indicates a missing or malformed mapping
	// configuration (file path, anchor id, field definition).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrCorruptPersistence indicates a backing file exists but cannot be
	// decoded into a consistent tree.
	ErrCorruptPersistence = errors.New("corrupt persistence")

	// ErrUnclassifiedField indicates a field edit whose scope could not be
	// resolved to shared, unversioned, or versioned.
	ErrUnclassifiedField = errors.New("unclassified field")
)
