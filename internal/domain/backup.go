package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/repaint-dev/repaint/internal/adapter"
	m "github.com/repaint-dev/repaint/internal/model"
)

// BackupManager owns the pre-write snapshots an apply run depends on. Create
// is fail-atomic: a snapshot either exists completely with a verified
// manifest or not at all. Restore is best-effort: it recovers every file it
// can and reports the rest.
type BackupManager interface {
	Create(root m.Path, paths []m.Path) (m.BackupManifest, error)
	Verify(id string) (m.BackupVerification, error)
	Restore(id string) (m.RestoreReport, error)
	List() ([]m.BackupManifest, error)
	Delete(id string) error
}

const backupFilesDir = "files"

type backupManager struct {
	fs    adapter.SourceFSAdapter
	store adapter.ManifestStore
	root  m.Path
}

// NewBackupManager constructs a BackupManager that stores snapshots under
// backupRoot, one id-named directory per snapshot.
func NewBackupManager(fs adapter.SourceFSAdapter, store adapter.ManifestStore, backupRoot m.Path) BackupManager {
	return &backupManager{fs: fs, store: store, root: backupRoot}
}

// Create copies every listed file into a fresh id-scoped directory, hashes
// each copy, and persists the manifest. Any failure removes the partial
// snapshot before returning.
func (b *backupManager) Create(projectRoot m.Path, paths []m.Path) (m.BackupManifest, error) {
	id, location, err := b.claimLocation()
	if err != nil {
		return m.BackupManifest{}, err
	}

	manifest := m.BackupManifest{
		ID:        id,
		CreatedAt: time.Now(),
		Root:      projectRoot,
		Files:     map[string]string{},
		Location:  location,
	}

	for _, path := range paths {
		if err := b.snapshotFile(&manifest, projectRoot, path); err != nil {
			b.discard(location)
			return m.BackupManifest{}, err
		}
	}

	if err := b.store.Save(manifest); err != nil {
		b.discard(location)
		return m.BackupManifest{}, err
	}

	slog.Info("created backup", "id", id, "files", len(manifest.Files), "location", location)

	return manifest, nil
}

// claimLocation picks a millisecond-timestamp id that does not collide with
// an existing snapshot directory and creates its file tree.
func (b *backupManager) claimLocation() (string, m.Path, error) {
	stamp := time.Now().UnixMilli()

	for {
		id := strconv.FormatInt(stamp, 10)
		location := b.fs.JoinPath(string(b.root), id)

		if _, err := b.fs.FileInfo(location); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return "", "", fmt.Errorf("failed to probe backup location: %w", err)
			}

			if err := b.fs.MkdirAll(b.fs.JoinPath(string(location), backupFilesDir), 0o750); err != nil {
				return "", "", fmt.Errorf("failed to create backup location: %w", err)
			}

			return id, location, nil
		}

		stamp++
	}
}

func (b *backupManager) snapshotFile(manifest *m.BackupManifest, projectRoot, path m.Path) error {
	rel, err := b.fs.RelPath(projectRoot, path)
	if err != nil {
		return fmt.Errorf("failed to relativize %s: %w", path, err)
	}

	copyPath := b.fs.JoinPath(string(manifest.Location), backupFilesDir, string(rel))
	if err := b.fs.CopyFile(path, copyPath); err != nil {
		return fmt.Errorf("failed to copy %s into backup: %w", path, err)
	}

	hash, err := b.fs.HashFile(copyPath)
	if err != nil {
		return fmt.Errorf("failed to hash backup copy of %s: %w", path, err)
	}

	manifest.Files[string(rel)] = hash

	return nil
}

func (b *backupManager) discard(location m.Path) {
	if err := b.fs.RemoveAll(location); err != nil {
		slog.Warn("failed to remove partial backup", "location", location, "error", err)
	}
}

// Verify re-hashes every snapshot copy against the manifest.
func (b *backupManager) Verify(id string) (m.BackupVerification, error) {
	manifest, err := b.load(id)
	if err != nil {
		return m.BackupVerification{}, err
	}

	var verification m.BackupVerification

	for _, rel := range sortedKeys(manifest.Files) {
		copyPath := b.fs.JoinPath(string(manifest.Location), backupFilesDir, rel)

		hash, err := b.fs.HashFile(copyPath)

		switch {
		case err != nil:
			verification.Missing++
			verification.Mismatches = append(verification.Mismatches, rel)
		case hash != manifest.Files[rel]:
			verification.Corrupted++
			verification.Mismatches = append(verification.Mismatches, rel)
		default:
			verification.Verified++
		}
	}

	return verification, nil
}

// Restore copies intact snapshot files back over the project. Corrupted or
// missing copies are skipped and reported; they never abort the recovery of
// the remaining files.
func (b *backupManager) Restore(id string) (m.RestoreReport, error) {
	manifest, err := b.load(id)
	if err != nil {
		return m.RestoreReport{}, err
	}

	var report m.RestoreReport

	for _, rel := range sortedKeys(manifest.Files) {
		copyPath := b.fs.JoinPath(string(manifest.Location), backupFilesDir, rel)

		hash, err := b.fs.HashFile(copyPath)
		if err != nil {
			report.Missing++
			report.Failures = append(report.Failures, fmt.Sprintf("%s: backup copy unreadable: %v", rel, err))

			continue
		}

		if hash != manifest.Files[rel] {
			report.Corrupted++
			report.Failures = append(report.Failures, fmt.Sprintf("%s: backup copy does not match manifest hash", rel))

			continue
		}

		target := b.fs.JoinPath(string(manifest.Root), rel)
		if err := b.fs.CopyFile(copyPath, target); err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: restore failed: %v", rel, err))

			continue
		}

		report.Restored++
	}

	slog.Info("restored backup", "id", id, "restored", report.Restored, "failures", len(report.Failures))

	return report, nil
}

// List returns every readable manifest under the backup root, newest first.
func (b *backupManager) List() ([]m.BackupManifest, error) {
	ids, err := b.fs.ListDirs(b.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list backup root %s: %w", b.root, err)
	}

	var manifests []m.BackupManifest

	for _, id := range ids {
		manifest, err := b.load(id)
		if err != nil {
			slog.Warn("skipping unreadable backup", "id", id, "error", err)
			continue
		}

		manifests = append(manifests, manifest)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
	})

	return manifests, nil
}

// Delete removes a snapshot and its manifest.
func (b *backupManager) Delete(id string) error {
	manifest, err := b.load(id)
	if err != nil {
		return err
	}

	if err := b.fs.RemoveAll(manifest.Location); err != nil {
		return fmt.Errorf("failed to delete backup %s: %w", id, err)
	}

	slog.Info("deleted backup", "id", id)

	return nil
}

func (b *backupManager) load(id string) (m.BackupManifest, error) {
	location := b.fs.JoinPath(string(b.root), id)

	manifest, err := b.store.Load(location)
	if err != nil {
		return m.BackupManifest{}, fmt.Errorf("backup %s: %w", id, err)
	}

	return manifest, nil
}

func sortedKeys(files map[string]string) []string {
	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
