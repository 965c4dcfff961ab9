package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/repaint-dev/repaint/internal/model"
)

func sampleRun() m.RefactorRun {
	return m.RefactorRun{
		ID:          "run-1",
		Mode:        m.ModeApply,
		CreatedAt:   time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		ProjectRoot: "/tmp/project",
		BackupID:    "1700000000000",
		Results: []m.FileRefactorResult{
			{
				Path:          "lib/header.dart",
				OriginalText:  "Palette.primaryBlue",
				RewrittenText: "Theme.of(context).colorScheme.primary",
				Fingerprint:   42,
				Transformations: []m.Transformation{
					{
						Offset:      0,
						Length:      19,
						OldText:     "Palette.primaryBlue",
						NewText:     "Theme.of(context).colorScheme.primary",
						Kind:        m.TransformStrict,
						Description: "Palette.primaryBlue to colorScheme.primary",
					},
				},
				References: []m.ReferenceRecord{
					{
						Name:         "Palette.primaryBlue",
						Line:         1,
						Column:       1,
						Resolution:   m.ResolutionStrict,
						Target:       "primary",
						Availability: m.ContextAvailable,
					},
				},
			},
			{
				Path:          "lib/plain.dart",
				OriginalText:  "final x = 1;\n",
				RewrittenText: "final x = 1;\n",
				Fingerprint:   7,
			},
		},
		Failures: []m.FileFailure{
			{Path: "lib/broken.dart", Reason: "unbalanced brackets"},
		},
	}
}

func TestReportStoreRoundTrip(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(t.TempDir())

	run := sampleRun()
	require.NoError(t, store.SaveRun(dir, run))

	loaded, err := store.LoadRun(dir)
	require.NoError(t, err)

	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, m.ModeApply, loaded.Mode)
	assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, run.ProjectRoot, loaded.ProjectRoot)
	assert.Equal(t, run.BackupID, loaded.BackupID)
	assert.Equal(t, run.Failures, loaded.Failures)

	require.Len(t, loaded.Results, 2)
	assert.Equal(t, run.Results[0], loaded.Results[0])
	assert.Equal(t, run.Results[1], loaded.Results[1])
	assert.Len(t, loaded.ChangedFiles(), 1)
}

func TestReportStoreOverwritesPreviousRun(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(t.TempDir())

	require.NoError(t, store.SaveRun(dir, sampleRun()))

	second := sampleRun()
	second.ID = "run-2"
	second.Mode = m.ModeDryRun
	second.Results = second.Results[:1]
	require.NoError(t, store.SaveRun(dir, second))

	loaded, err := store.LoadRun(dir)
	require.NoError(t, err)

	assert.Equal(t, "run-2", loaded.ID)
	assert.Equal(t, m.ModeDryRun, loaded.Mode)
	assert.Len(t, loaded.Results, 1)
}

func TestReportStoreLoadErrors(t *testing.T) {
	store := NewLocalReportStore()

	t.Run("empty directory", func(t *testing.T) {
		_, err := store.LoadRun(m.Path(t.TempDir()))
		require.Error(t, err)
	})
}
