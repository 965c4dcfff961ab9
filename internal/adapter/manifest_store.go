package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/repaint-dev/repaint/internal/model"
)

const manifestFileName = "manifest.yaml"

// ManifestStore persists backup manifests next to the file snapshots they
// describe.
type ManifestStore interface {
	Save(manifest m.BackupManifest) error
	Load(location m.Path) (m.BackupManifest, error)
}

// LocalManifestStore stores manifests as YAML inside the backup directory.
type LocalManifestStore struct{}

// NewLocalManifestStore constructs a LocalManifestStore.
func NewLocalManifestStore() *LocalManifestStore {
	return &LocalManifestStore{}
}

// Save writes the manifest into its Location directory.
func (s *LocalManifestStore) Save(manifest m.BackupManifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal backup manifest: %w", err)
	}

	target := filepath.Join(string(manifest.Location), manifestFileName)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup manifest: %w", err)
	}

	return nil
}

// Load reads the manifest stored in the given backup directory.
func (s *LocalManifestStore) Load(location m.Path) (m.BackupManifest, error) {
	data, err := os.ReadFile(filepath.Join(string(location), manifestFileName))
	if err != nil {
		return m.BackupManifest{}, fmt.Errorf("failed to read backup manifest: %w", err)
	}

	var manifest m.BackupManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return m.BackupManifest{}, fmt.Errorf("failed to parse backup manifest: %w", err)
	}

	return manifest, nil
}
