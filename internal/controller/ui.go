// Package controller provides output adapters for presenting refactor runs.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/repaint-dev/repaint/internal/model"
)

// UI defines the interface for presenting runs, validation findings, and
// backup operations. Implementations can use different output methods
// (simple text, TUI, etc).
type UI interface {
	PresentPlan(ctx context.Context, run m.RefactorRun, report m.ValidationReport) error
	PresentApply(ctx context.Context, run m.RefactorRun, report m.ValidationReport, manifest m.BackupManifest) error
	PresentBackups(ctx context.Context, manifests []m.BackupManifest) error
	PresentVerification(ctx context.Context, id string, verification m.BackupVerification) error
	PresentRestore(ctx context.Context, id string, report m.RestoreReport) error
}

// NewUI picks the presentation layer: the interactive diff reviewer when
// requested (and meaningful), plain text otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	simple := NewSimpleUI(cmd)

	if interactive {
		return NewReviewTUI(simple)
	}

	return simple
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
