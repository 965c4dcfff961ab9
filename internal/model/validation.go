package model

// Severity classifies a validation issue.
type Severity int

const (
	// SeverityWarning needs human follow-up but does not block an apply.
	SeverityWarning Severity = iota
	// SeverityError is a release-blocking condition for apply-mode runs.
	SeverityError
)

// String returns a short human-readable name for the severity.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// Issue is one validation finding tied to a file and, when known, a line.
type Issue struct {
	Severity   Severity
	Path       Path
	Line       int
	Message    string
	Suggestion string
}

// ValidationReport aggregates Validator output for a run.
type ValidationReport struct {
	Issues []Issue
}

// Errors returns the error-severity issues.
func (r ValidationReport) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r ValidationReport) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any issue blocks an apply.
func (r ValidationReport) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r ValidationReport) filter(severity Severity) []Issue {
	var issues []Issue

	for _, issue := range r.Issues {
		if issue.Severity == severity {
			issues = append(issues, issue)
		}
	}

	return issues
}
