package domain

import "time"

// Operation names a committed mutation.
type Operation string

// Operations recorded in the commit journal.
const (
	OpCreate         Operation = "create"
	OpCopy           Operation = "copy"
	OpMove           Operation = "move"
	OpDelete         Operation = "delete"
	OpSave           Operation = "save"
	OpAddVersion     Operation = "add-version"
	OpRemoveVersion  Operation = "remove-version"
	OpRemoveVersions Operation = "remove-versions"
)

// CommitRecord describes one snapshot written to a backing file.
type CommitRecord struct {
	ID          int64
	Mapping     string
	Operation   Operation
	ItemID      ID
	Bytes       int
	Digest      string
	CommittedAt time.Time
}

// FileEventKind classifies a change to a watched file.
type FileEventKind int

const (
	// FileChanged means the file was created or written.
	FileChanged FileEventKind = iota
	// FileRemoved means the file was removed or renamed away.
	FileRemoved
)

// String returns the kind name.
func (k FileEventKind) String() string {
	if k == FileRemoved {
		return "removed"
	}
	return "changed"
}

// FileEvent reports a change to a watched backing file.
type FileEvent struct {
	Path string
	Kind FileEventKind
}

// ExternalChange reports a backing file modified by something other than
// its owning mapping.
type ExternalChange struct {
	Mapping string
	Path    string
	Kind    FileEventKind
}
