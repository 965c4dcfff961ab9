package adapter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/repaint-dev/repaint/internal/model"
)

func TestManifestStoreRoundTrip(t *testing.T) {
	store := NewLocalManifestStore()
	location := t.TempDir()

	manifest := m.BackupManifest{
		ID:        "1700000000000",
		CreatedAt: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Root:      "/tmp/project",
		Files: map[string]string{
			filepath.Join("lib", "main.dart"): "deadbeef",
		},
		Location: m.Path(location),
	}

	require.NoError(t, store.Save(manifest))

	loaded, err := store.Load(m.Path(location))
	require.NoError(t, err)

	assert.Equal(t, manifest.ID, loaded.ID)
	assert.True(t, manifest.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, manifest.Root, loaded.Root)
	assert.Equal(t, manifest.Files, loaded.Files)
	assert.Equal(t, manifest.Location, loaded.Location)
}

func TestManifestStoreLoadErrors(t *testing.T) {
	store := NewLocalManifestStore()

	t.Run("missing manifest", func(t *testing.T) {
		_, err := store.Load(m.Path(t.TempDir()))
		require.Error(t, err)
	})

	t.Run("nonexistent location on save", func(t *testing.T) {
		err := store.Save(m.BackupManifest{
			ID:       "x",
			Location: m.Path(filepath.Join(t.TempDir(), "absent")),
		})
		require.Error(t, err)
	})
}
