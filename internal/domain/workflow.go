package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/repaint-dev/repaint/internal/adapter"
	"github.com/repaint-dev/repaint/internal/controller"
	m "github.com/repaint-dev/repaint/internal/model"
)

const defaultFilePerm = os.FileMode(0o644)

// PlanArgs configures a dry-run pass over a project.
type PlanArgs struct {
	Root    m.Path
	Mapping m.MappingTable
	Exclude []string

	// Reports is the directory the run record is persisted into.
	Reports m.Path
}

// ApplyArgs configures an apply pass. Force lets validation errors through;
// the backup still happens first.
type ApplyArgs struct {
	PlanArgs
	Force bool
}

// Workflow wires scanning, resolution, analysis, rewriting, validation, and
// persistence into the user-facing plan/apply/view passes.
type Workflow interface {
	Plan(ctx context.Context, args PlanArgs) (m.RefactorRun, m.ValidationReport, error)
	Apply(ctx context.Context, args ApplyArgs) (m.RefactorRun, m.ValidationReport, error)
	View(ctx context.Context, reports m.Path) (m.RefactorRun, m.ValidationReport, error)
}

type workflow struct {
	fs          adapter.SourceFSAdapter
	dartAdapter adapter.DartFileAdapter
	reports     adapter.ReportStore
	backups     BackupManager
	validator   Validator
	ui          controller.UI
}

// NewWorkflow constructs a Workflow from its collaborators.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	dartAdapter adapter.DartFileAdapter,
	reports adapter.ReportStore,
	backups BackupManager,
	validator Validator,
	ui controller.UI,
) Workflow {
	return &workflow{
		fs:          fs,
		dartAdapter: dartAdapter,
		reports:     reports,
		backups:     backups,
		validator:   validator,
		ui:          ui,
	}
}

// Plan scans the project, synthesizes every rewrite, and validates the
// results without touching any file on disk.
func (w *workflow) Plan(ctx context.Context, args PlanArgs) (m.RefactorRun, m.ValidationReport, error) {
	run, err := w.buildRun(ctx, args, m.ModeDryRun)
	if err != nil {
		return m.RefactorRun{}, m.ValidationReport{}, err
	}

	report := w.validator.ValidateRun(run)

	w.persistRun(args.Reports, run)

	if err := w.ui.PresentPlan(ctx, run, report); err != nil {
		return run, report, err
	}

	return run, report, nil
}

// Apply re-plans the project and then writes the rewritten files, in that
// order: validation gate, modification guard, backup, write, verify. A
// validation error aborts before anything is touched unless forced.
func (w *workflow) Apply(ctx context.Context, args ApplyArgs) (m.RefactorRun, m.ValidationReport, error) {
	run, err := w.buildRun(ctx, args.PlanArgs, m.ModeApply)
	if err != nil {
		return m.RefactorRun{}, m.ValidationReport{}, err
	}

	report := w.validator.ValidateRun(run)

	if report.HasErrors() && !args.Force {
		w.persistRun(args.Reports, run)

		if err := w.ui.PresentPlan(ctx, run, report); err != nil {
			return run, report, err
		}

		return run, report, fmt.Errorf(
			"validation found %d blocking issue(s); fix them or re-run with --force",
			len(report.Errors()),
		)
	}

	writable := w.guardAgainstDrift(&run)

	var manifest m.BackupManifest

	if len(writable) > 0 {
		paths := make([]m.Path, len(writable))
		for i, result := range writable {
			paths[i] = result.Path
		}

		manifest, err = w.backups.Create(args.Root, paths)
		if err != nil {
			return run, report, fmt.Errorf("backup failed, nothing was modified: %w", err)
		}

		run.BackupID = manifest.ID

		w.writeResults(&run, writable)
	}

	w.persistRun(args.Reports, run)

	if err := w.ui.PresentApply(ctx, run, report, manifest); err != nil {
		return run, report, err
	}

	return run, report, nil
}

// View reloads a persisted run, re-validates it, and presents it.
func (w *workflow) View(ctx context.Context, reports m.Path) (m.RefactorRun, m.ValidationReport, error) {
	run, err := w.reports.LoadRun(reports)
	if err != nil {
		return m.RefactorRun{}, m.ValidationReport{}, err
	}

	report := w.validator.ValidateRun(run)

	if err := w.ui.PresentPlan(ctx, run, report); err != nil {
		return run, report, err
	}

	return run, report, nil
}

// buildRun scans the project and processes each file. Per-file failures are
// collected on the run; only setup failures (unreadable root) abort.
func (w *workflow) buildRun(ctx context.Context, args PlanArgs, mode m.RunMode) (m.RefactorRun, error) {
	files, err := w.fs.CollectSourceFiles(ctx, args.Root, args.Exclude)
	if err != nil {
		return m.RefactorRun{}, fmt.Errorf("failed to scan project: %w", err)
	}

	run := m.RefactorRun{
		ID:          uuid.NewString(),
		Mode:        mode,
		CreatedAt:   time.Now(),
		ProjectRoot: args.Root,
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return m.RefactorRun{}, err
		}

		result, err := w.processFile(file, args.Mapping)
		if err != nil {
			slog.Warn("skipping file", "path", file.Path, "error", err)
			run.Failures = append(run.Failures, m.FileFailure{Path: file.Path, Reason: err.Error()})

			continue
		}

		run.Results = append(run.Results, result)
	}

	slog.Info("processed project",
		"root", args.Root,
		"mode", mode.String(),
		"files", len(run.Results),
		"changed", len(run.ChangedFiles()),
		"failures", len(run.Failures),
	)

	return run, nil
}

// processFile runs the resolve/analyze/synthesize/splice pipeline on one file.
func (w *workflow) processFile(file m.SourceFile, table m.MappingTable) (m.FileRefactorResult, error) {
	content, err := w.fs.ReadFile(file.Path)
	if err != nil {
		return m.FileRefactorResult{}, err
	}

	unit, err := w.dartAdapter.Parse(file.Path, content)
	if err != nil {
		return m.FileRefactorResult{}, err
	}

	resolutions := ResolveReferences(unit, table)

	records := make([]m.ReferenceRecord, 0, len(resolutions))
	for _, res := range resolutions {
		records = append(records, m.ReferenceRecord{
			Name:          res.Ref.Name,
			Line:          res.Ref.Line,
			Column:        res.Ref.Column,
			Resolution:    res.Kind,
			Target:        res.Target,
			Availability:  AnalyzeContext(res.Ref.Node),
			ManualReasons: ManualInterventionReasons(res.Ref.Node),
		})
	}

	transformations := SynthesizeTransformations(resolutions)

	rewritten, err := ApplyTransformations(content, transformations)
	if err != nil {
		return m.FileRefactorResult{}, err
	}

	return m.FileRefactorResult{
		Path:            file.Path,
		OriginalText:    string(content),
		RewrittenText:   string(rewritten),
		Fingerprint:     file.Fingerprint,
		Transformations: transformations,
		References:      records,
	}, nil
}

// guardAgainstDrift drops changed files whose on-disk content no longer
// matches the fingerprint taken at scan time, recording each as a failure.
func (w *workflow) guardAgainstDrift(run *m.RefactorRun) []m.FileRefactorResult {
	var writable []m.FileRefactorResult

	for _, result := range run.Results {
		if !result.HasChanges() {
			continue
		}

		fingerprint, err := w.fs.Fingerprint(result.Path)
		if err != nil {
			run.Failures = append(run.Failures, m.FileFailure{
				Path:   result.Path,
				Reason: fmt.Sprintf("file disappeared before write: %v", err),
			})

			continue
		}

		if fingerprint != result.Fingerprint {
			run.Failures = append(run.Failures, m.FileFailure{
				Path:   result.Path,
				Reason: "file was modified after planning; re-run to pick up the new content",
			})

			continue
		}

		writable = append(writable, result)
	}

	return writable
}

// writeResults overwrites each target file and re-reads it to confirm the
// bytes on disk match the intended rewrite. Failures are recorded per file.
func (w *workflow) writeResults(run *m.RefactorRun, results []m.FileRefactorResult) {
	for _, result := range results {
		perm := defaultFilePerm

		if info, err := w.fs.FileInfo(result.Path); err == nil {
			perm = info.Mode().Perm()
		}

		if err := w.fs.WriteFile(result.Path, []byte(result.RewrittenText), perm); err != nil {
			run.Failures = append(run.Failures, m.FileFailure{
				Path:   result.Path,
				Reason: fmt.Sprintf("write failed: %v", err),
			})

			continue
		}

		written, err := w.fs.ReadFile(result.Path)
		if err != nil || string(written) != result.RewrittenText {
			run.Failures = append(run.Failures, m.FileFailure{
				Path:   result.Path,
				Reason: "post-write verification failed; restore from the run's backup",
			})
		}
	}
}

// persistRun saves the run record. A persistence problem is logged rather
// than failing a run whose real work already happened.
func (w *workflow) persistRun(reports m.Path, run m.RefactorRun) {
	if reports == "" {
		return
	}

	if err := w.reports.SaveRun(reports, run); err != nil {
		slog.Warn("failed to persist run record", "dir", reports, "error", err)
	}
}
