package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/repaint-dev/repaint/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command

	// Colored toggles terminal styling of diffs and issue labels.
	Colored bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// PresentPlan prints the per-file diffs, validation findings, and a summary
// table for a planned (or reloaded) run.
func (s *SimpleUI) PresentPlan(ctx context.Context, run m.RefactorRun, report m.ValidationReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Run %s (%s) on %s\n", run.ID, run.Mode, run.ProjectRoot)
	s.printf("Scanned %d file(s); %d change(s) in %d file(s)\n\n",
		len(run.Results), run.TransformationCount(), len(run.ChangedFiles()))

	for _, result := range run.Results {
		if !result.HasChanges() {
			continue
		}

		diff, err := UnifiedDiff(string(result.Path), result.OriginalText, result.RewrittenText)
		if err != nil {
			return err
		}

		if s.Colored {
			diff = ColorizeDiff(diff)
		}

		s.printf("%s\n", diff)
	}

	s.presentFailures(run)
	s.presentIssues(report)
	s.printf("\n%s", renderRunTable(run))

	return nil
}

// PresentApply prints the apply outcome and how to undo it.
func (s *SimpleUI) PresentApply(ctx context.Context, run m.RefactorRun, report m.ValidationReport, manifest m.BackupManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	changed := run.ChangedFiles()

	s.printf("Run %s (%s) on %s\n", run.ID, run.Mode, run.ProjectRoot)
	s.printf("Wrote %d transformation(s) across %d file(s)\n", run.TransformationCount(), len(changed))

	if run.BackupID != "" {
		s.printf("Backup %s taken before writing (%d file(s)); undo with: repaint backup restore %s\n",
			run.BackupID, len(manifest.Files), run.BackupID)
	}

	s.presentFailures(run)
	s.presentIssues(report)
	s.printf("\n%s", renderRunTable(run))

	return nil
}

// PresentBackups lists the known snapshots, newest first.
func (s *SimpleUI) PresentBackups(ctx context.Context, manifests []m.BackupManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(manifests) == 0 {
		s.printf("No backups found\n")
		return nil
	}

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"ID", "Created", "Files", "Root"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, manifest := range manifests {
		table.Append([]string{
			manifest.ID,
			manifest.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", len(manifest.Files)),
			string(manifest.Root),
		})
	}

	table.Render()
	s.printf("%s", buffer.String())

	return nil
}

// PresentVerification prints the outcome of re-hashing a snapshot.
func (s *SimpleUI) PresentVerification(ctx context.Context, id string, verification m.BackupVerification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Backup %s: %d verified, %d missing, %d corrupted\n",
		id, verification.Verified, verification.Missing, verification.Corrupted)

	for _, rel := range verification.Mismatches {
		s.printf("  %s %s\n", s.label(errStyle, "damaged:"), rel)
	}

	if verification.IsValid() {
		s.printf("Backup %s is intact\n", id)
	}

	return nil
}

// PresentRestore prints the outcome of a restore.
func (s *SimpleUI) PresentRestore(ctx context.Context, id string, report m.RestoreReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Restored %d file(s) from backup %s\n", report.Restored, id)

	for _, failure := range report.Failures {
		s.printf("  %s %s\n", s.label(errStyle, "failed:"), failure)
	}

	return nil
}

func (s *SimpleUI) presentFailures(run m.RefactorRun) {
	for _, failure := range run.Failures {
		s.printf("%s %s: %s\n", s.label(errStyle, "skipped:"), failure.Path, failure.Reason)
	}
}

func (s *SimpleUI) presentIssues(report m.ValidationReport) {
	for _, issue := range report.Issues {
		label := s.label(warnStyle, "warning:")
		if issue.Severity == m.SeverityError {
			label = s.label(errStyle, "error:")
		}

		location := string(issue.Path)
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
		}

		s.printf("%s %s: %s\n", label, location, issue.Message)

		if issue.Suggestion != "" {
			s.printf("  hint: %s\n", issue.Suggestion)
		}
	}
}

// renderRunTable summarizes the run per changed file: how many rewrites of
// each kind and how many sites still need a human.
func renderRunTable(run m.RefactorRun) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Path", "Strict", "Extension", "Manual"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	totalStrict := 0
	totalExtension := 0
	totalManual := 0
	rows := 0

	for _, result := range run.Results {
		if !result.HasChanges() {
			continue
		}

		strict, extension := countKinds(result.Transformations)
		manual := countManual(result.References)

		table.Append([]string{
			string(result.Path),
			fmt.Sprintf("%d", strict),
			fmt.Sprintf("%d", extension),
			fmt.Sprintf("%d", manual),
		})

		totalStrict += strict
		totalExtension += extension
		totalManual += manual
		rows++
	}

	if rows == 0 {
		return "No changes planned\n"
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", rows),
		fmt.Sprintf("%d", totalStrict),
		fmt.Sprintf("%d", totalExtension),
		fmt.Sprintf("%d", totalManual),
	})

	table.Render()

	return buffer.String()
}

func countKinds(transformations []m.Transformation) (strict, extension int) {
	for _, t := range transformations {
		if t.Kind == m.TransformExtension {
			extension++
		} else {
			strict++
		}
	}

	return strict, extension
}

func countManual(records []m.ReferenceRecord) int {
	manual := 0

	for _, record := range records {
		if !record.Availability.CanAutoInject() {
			manual++
		}
	}

	return manual
}

func (s *SimpleUI) label(style interface{ Render(...string) string }, text string) string {
	if s.Colored {
		return style.Render(text)
	}

	return text
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
