package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/repaint-dev/repaint/internal/adapter"
	"github.com/repaint-dev/repaint/internal/dart"
	m "github.com/repaint-dev/repaint/internal/model"
)

const materialImport = "package:flutter/material.dart"

// Validator re-checks rewritten sources before they are allowed near the
// disk: the text must still parse, every synthesized theme lookup must sit
// in a scope that can supply its handle, and the import the lookup needs
// must be present.
type Validator interface {
	// ValidateFile checks a single rewritten file.
	ValidateFile(result m.FileRefactorResult) []m.Issue

	// ValidateRun checks every changed file in the run.
	ValidateRun(run m.RefactorRun) m.ValidationReport
}

type validator struct {
	dartAdapter adapter.DartFileAdapter
}

// NewValidator constructs a Validator backed by the given parser.
func NewValidator(dartAdapter adapter.DartFileAdapter) Validator {
	return &validator{dartAdapter: dartAdapter}
}

// ValidateFile re-parses the rewritten text and re-analyzes the context of
// every theme lookup it contains.
func (v *validator) ValidateFile(result m.FileRefactorResult) []m.Issue {
	unit, err := v.dartAdapter.Parse(result.Path, []byte(result.RewrittenText))
	if err != nil {
		return []m.Issue{parseIssue(result.Path, err)}
	}

	var issues []m.Issue

	sawLookup := false

	for _, ref := range unit.References() {
		if ref.Qualifier != "Theme" || ref.Member != "of" {
			continue
		}

		sawLookup = true

		availability := AnalyzeContext(ref)
		line, _ := unit.Position(ref.Pos())

		switch availability {
		case m.ContextUnavailable:
			issues = append(issues, m.Issue{
				Severity:   m.SeverityError,
				Path:       result.Path,
				Line:       line,
				Message:    "theme lookup in a scope that can never supply a BuildContext",
				Suggestion: strings.Join(ManualInterventionReasons(ref), "; "),
			})
		case m.ContextRequiresManual:
			issues = append(issues, m.Issue{
				Severity:   m.SeverityWarning,
				Path:       result.Path,
				Line:       line,
				Message:    "theme lookup needs a human-threaded BuildContext",
				Suggestion: strings.Join(ManualInterventionReasons(ref), "; "),
			})
		case m.ContextAvailable, m.ContextCanInject:
		}
	}

	if sawLookup && !unit.HasImport(materialImport) {
		issues = append(issues, m.Issue{
			Severity:   m.SeverityWarning,
			Path:       result.Path,
			Message:    "rewritten file uses Theme.of but does not import the material library",
			Suggestion: fmt.Sprintf("add import '%s';", materialImport),
		})
	}

	return issues
}

// ValidateRun validates every result that actually changed. Untouched files
// are never re-judged, so pre-existing oddities cannot block an apply.
func (v *validator) ValidateRun(run m.RefactorRun) m.ValidationReport {
	var report m.ValidationReport

	for _, result := range run.Results {
		if !result.HasChanges() {
			continue
		}

		report.Issues = append(report.Issues, v.ValidateFile(result)...)
	}

	return report
}

func parseIssue(path m.Path, err error) m.Issue {
	issue := m.Issue{
		Severity: m.SeverityError,
		Path:     path,
		Message:  fmt.Sprintf("rewritten source no longer parses: %v", err),
	}

	var parseErr *dart.ParseError
	if errors.As(err, &parseErr) {
		issue.Line = parseErr.Line
	}

	return issue
}
