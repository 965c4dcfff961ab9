// Package adapter contains filesystem, parsing, and persistence adapters for
// the repaint CLI.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	m "github.com/repaint-dev/repaint/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer relies
// on when scanning, backing up, and rewriting user projects. It intentionally
// hides direct `os` access so the workflow logic can be tested without
// touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// CollectSourceFiles walks root and returns the Dart files eligible for
	// rewriting, skipping generated and test files plus any user-provided
	// glob patterns, each with a content fingerprint taken at scan time.
	CollectSourceFiles(ctx context.Context, root m.Path, exclude []string) ([]m.SourceFile, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// CopyFile copies a single file, creating the destination directory when
	// necessary and preserving the source permissions.
	CopyFile(src, dst m.Path) error

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// Fingerprint returns a fast non-cryptographic content fingerprint used
	// to detect external modification between planning and applying.
	Fingerprint(path m.Path) (uint64, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// MkdirAll creates a directory tree.
	MkdirAll(path m.Path, perm os.FileMode) error

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// ListDirs returns the names of the immediate subdirectories of path.
	ListDirs(path m.Path) ([]string, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the concrete implementation that backs the
// SourceFSAdapter interface with the os package.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

var skippedDirs = map[string]bool{
	".git":       true,
	".dart_tool": true,
	"build":      true,
	".repaint":   true,
}

var skippedSuffixes = []string{"_test.dart", ".g.dart", ".freezed.dart"}

// CollectSourceFiles walks root and fingerprints every eligible Dart file.
// The result is sorted by path so runs are deterministic.
func (a *LocalSourceFSAdapter) CollectSourceFiles(ctx context.Context, root m.Path, exclude []string) ([]m.SourceFile, error) {
	rootStr := string(root)

	if _, err := os.Stat(rootStr); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}

	var paths []string

	err := filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != rootStr && skippedDirs[filepath.Base(path)] {
				return filepath.SkipDir
			}

			return nil
		}

		if !eligibleSource(path) {
			return nil
		}

		rel, err := filepath.Rel(rootStr, path)
		if err != nil {
			return err
		}

		for _, pattern := range exclude {
			if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
				return nil
			}
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	files := make([]m.SourceFile, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			fp, err := a.Fingerprint(m.Path(path))
			if err != nil {
				return err
			}

			files[i] = m.SourceFile{Path: m.Path(path), Fingerprint: fp}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func eligibleSource(path string) bool {
	if filepath.Ext(path) != ".dart" {
		return false
	}

	for _, suffix := range skippedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}

	return true
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// CopyFile copies src to dst, preserving the source file's permissions.
func (a *LocalSourceFSAdapter) CopyFile(src, dst m.Path) error {
	// #nosec G304 - src is internal project file path, not user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(dst)), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is internal destination path, not user input
	destFile, err := os.Create(string(dst))
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(string(dst), info.Mode().Perm())
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Fingerprint returns the xxhash of the file's content.
func (a *LocalSourceFSAdapter) Fingerprint(path m.Path) (uint64, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return 0, err
	}

	return xxhash.Sum64(content), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// MkdirAll creates a directory tree.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// ListDirs returns the names of path's immediate subdirectories.
func (a *LocalSourceFSAdapter) ListDirs(path m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, err
	}

	var dirs []string

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
