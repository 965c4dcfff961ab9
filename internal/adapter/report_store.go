package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	m "github.com/repaint-dev/repaint/internal/model"
	"github.com/repaint-dev/repaint/pkg"
)

const (
	runFileName     = "run.yaml"
	resultsFileName = "results.gob"
	reportDirPerm   = 0o750
	reportFilePerm  = 0o600
)

// ReportStore persists refactor runs so a plan can be reviewed later and an
// apply can be audited after the fact. The run header goes to YAML for human
// inspection; per-file results (which carry full file texts) are spooled to a
// gob log next to it.
type ReportStore interface {
	SaveRun(dir m.Path, run m.RefactorRun) error
	LoadRun(dir m.Path) (m.RefactorRun, error)
}

type runHeader struct {
	ID          string          `yaml:"id"`
	Mode        string          `yaml:"mode"`
	CreatedAt   time.Time       `yaml:"created_at"`
	ProjectRoot m.Path          `yaml:"project_root"`
	BackupID    string          `yaml:"backup_id,omitempty"`
	Failures    []m.FileFailure `yaml:"failures,omitempty"`
	FileCount   int             `yaml:"file_count"`
}

// LocalReportStore stores runs under a directory on the local filesystem.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveRun writes the run header and spools the per-file results.
func (s *LocalReportStore) SaveRun(dir m.Path, run m.RefactorRun) error {
	if err := os.MkdirAll(string(dir), reportDirPerm); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	header := runHeader{
		ID:          run.ID,
		Mode:        run.Mode.String(),
		CreatedAt:   run.CreatedAt,
		ProjectRoot: run.ProjectRoot,
		BackupID:    run.BackupID,
		Failures:    run.Failures,
		FileCount:   len(run.Results),
	}

	data, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal run header: %w", err)
	}

	if err := os.WriteFile(filepath.Join(string(dir), runFileName), data, reportFilePerm); err != nil {
		return fmt.Errorf("failed to write run header: %w", err)
	}

	spool, err := pkg.NewSpool[m.FileRefactorResult](filepath.Join(string(dir), resultsFileName))
	if err != nil {
		return err
	}

	if err := spool.AppendBatch(run.Results); err != nil {
		_ = spool.Close()
		return err
	}

	if err := spool.Close(); err != nil {
		return err
	}

	slog.Debug("saved run", "dir", dir, "id", run.ID, "files", len(run.Results))

	return nil
}

// LoadRun reads the run header and replays the result spool.
func (s *LocalReportStore) LoadRun(dir m.Path) (m.RefactorRun, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), runFileName))
	if err != nil {
		return m.RefactorRun{}, fmt.Errorf("failed to read run header: %w", err)
	}

	var header runHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return m.RefactorRun{}, fmt.Errorf("failed to parse run header: %w", err)
	}

	mode, err := m.ParseRunMode(header.Mode)
	if err != nil {
		return m.RefactorRun{}, err
	}

	run := m.RefactorRun{
		ID:          header.ID,
		Mode:        mode,
		CreatedAt:   header.CreatedAt,
		ProjectRoot: header.ProjectRoot,
		BackupID:    header.BackupID,
		Failures:    header.Failures,
	}

	spool, err := pkg.OpenSpool[m.FileRefactorResult](filepath.Join(string(dir), resultsFileName))
	if err != nil {
		return m.RefactorRun{}, err
	}

	defer func() { _ = spool.Close() }()

	err = spool.Range(func(_ uint64, item m.FileRefactorResult) error {
		run.Results = append(run.Results, item)
		return nil
	})
	if err != nil {
		return m.RefactorRun{}, err
	}

	return run, nil
}
