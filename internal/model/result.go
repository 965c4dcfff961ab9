package model

import (
	"fmt"
	"time"
)

// RunMode tags a refactor run as a dry-run plan or an applied migration.
type RunMode int

const (
	// ModeDryRun plans and reports without touching any file.
	ModeDryRun RunMode = iota
	// ModeApply writes rewritten files after taking a verified backup.
	ModeApply
)

// String returns a short human-readable name for the run mode.
func (m RunMode) String() string {
	if m == ModeApply {
		return "apply"
	}

	return "dry-run"
}

// ParseRunMode converts a persisted mode name back into a RunMode.
func ParseRunMode(s string) (RunMode, error) {
	switch s {
	case "apply":
		return ModeApply, nil
	case "dry-run":
		return ModeDryRun, nil
	default:
		return ModeDryRun, fmt.Errorf("unknown run mode %q", s)
	}
}

// ReferenceRecord is the serializable trace of one located reference:
// what it resolved to and whether its scope can supply a BuildContext.
// It survives the run for reporting; the live syntax node does not.
type ReferenceRecord struct {
	Name          string
	Line          int
	Column        int
	Resolution    ResolutionKind
	Target        string
	Availability  ContextAvailability
	ManualReasons []string
}

// FileRefactorResult holds the outcome of processing a single source file.
type FileRefactorResult struct {
	Path            Path
	OriginalText    string
	RewrittenText   string
	Fingerprint     uint64
	Transformations []Transformation
	References      []ReferenceRecord
}

// HasChanges reports whether any transformation was produced for the file.
func (r FileRefactorResult) HasChanges() bool {
	return len(r.Transformations) > 0
}

// FileFailure records a file that was excluded from the result set. A failing
// file never aborts the run for the others.
type FileFailure struct {
	Path   Path
	Reason string
}

// RefactorRun aggregates per-file results over one project pass.
type RefactorRun struct {
	ID          string
	Mode        RunMode
	CreatedAt   time.Time
	ProjectRoot Path
	Results     []FileRefactorResult
	Failures    []FileFailure

	// BackupID is set on apply runs once the pre-write snapshot exists.
	BackupID string
}

// ChangedFiles returns the paths of all results that carry transformations.
func (r RefactorRun) ChangedFiles() []Path {
	var paths []Path

	for _, res := range r.Results {
		if res.HasChanges() {
			paths = append(paths, res.Path)
		}
	}

	return paths
}

// TransformationCount returns the total number of edits across all files.
func (r RefactorRun) TransformationCount() int {
	count := 0
	for _, res := range r.Results {
		count += len(res.Transformations)
	}

	return count
}
