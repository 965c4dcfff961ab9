package model

// Path represents a file system path.
type Path string

// SourceFile is a candidate file selected by the project scanner, together
// with a fast content fingerprint taken at scan time. The fingerprint is not
// cryptographic; it only detects external modification between planning and
// applying a run. Backup integrity uses SHA-256 (see BackupManifest).
type SourceFile struct {
	Path        Path
	Fingerprint uint64
}
