package model

import "time"

// BackupManifest is the persisted record of one pre-write snapshot. It is
// created before any target file is overwritten and outlives the run so a
// later restore can undo the migration.
type BackupManifest struct {
	ID        string    `yaml:"id"`
	CreatedAt time.Time `yaml:"created_at"`

	// Root is the project root the relative paths in Files resolve against.
	Root Path `yaml:"root"`

	// Files maps relative paths to the SHA-256 hex digest of the copied
	// content.
	Files map[string]string `yaml:"files"`

	// Location is the id-scoped directory holding the copied file tree and
	// this manifest.
	Location Path `yaml:"location"`
}

// BackupVerification is the outcome of re-hashing a snapshot against its
// manifest.
type BackupVerification struct {
	Verified  int
	Missing   int
	Corrupted int

	// Mismatches lists the relative paths that were missing or corrupted.
	Mismatches []string
}

// IsValid reports whether every manifest entry is present and hash-identical.
func (v BackupVerification) IsValid() bool {
	return v.Missing == 0 && v.Corrupted == 0
}

// RestoreReport is the outcome of a best-effort restore. A partial restore
// recovers everything it can instead of aborting wholesale.
type RestoreReport struct {
	Restored  int
	Missing   int
	Corrupted int

	// Failures lists per-path problems encountered while restoring.
	Failures []string
}
