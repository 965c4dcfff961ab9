// Package pkg is a package that provides utilities for repaint.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Spool is a generic append-only gob log for items of type T, addressed by an
// explicit path so run records survive between CLI invocations.
type Spool[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type spoolImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewSpool creates (or truncates) a writable spool at path.
func NewSpool[T any](path string) (Spool[T], error) {
	// #nosec G304 - path is an internal report location, not user input
	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create spool file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}

	slog.Debug("created spool", "path", path)

	return &spoolImpl[T]{
		path:    path,
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// OpenSpool opens an existing spool read-only. The item count is established
// by decoding the stream once; Append on an opened spool returns an error.
func OpenSpool[T any](path string) (Spool[T], error) {
	// #nosec G304 - path is an internal report location, not user input
	file, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open spool file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open spool file: %w", err)
	}

	decoder := gob.NewDecoder(file)

	var (
		length uint64
		item   T
	)

	for {
		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			_ = file.Close()

			slog.Error("failed to scan spool file", "path", path, "index", length, "error", err)

			return nil, fmt.Errorf("failed to scan spool file: %w", err)
		}

		length++
	}

	if err := file.Close(); err != nil {
		return nil, err
	}

	slog.Debug("opened spool", "path", path, "length", length)

	return &spoolImpl[T]{path: path, length: length}, nil
}

// Append implements Spool.
func (s *spoolImpl[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return fmt.Errorf("spool %s is read-only", s.path)
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	s.length++
	slog.Debug("appended item", "path", s.path, "index", s.length-1)

	return nil
}

// AppendBatch implements Spool.
func (s *spoolImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := s.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Path implements Spool.
func (s *spoolImpl[T]) Path() string {
	return s.path
}

// Len implements Spool.
func (s *spoolImpl[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Range implements Spool.
func (s *spoolImpl[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// #nosec G304 - path is an internal report location, not user input
	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spool for range", "path", s.path, "error", err)
		return fmt.Errorf("failed to open spool: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spool", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i < s.length; i++ {
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode item during range", "path", s.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			slog.Warn("range callback error", "path", s.path, "index", i, "error", err)
			return err
		}
	}

	slog.Debug("range completed", "path", s.path, "count", s.length)

	return nil
}

// Close implements Spool.
func (s *spoolImpl[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			slog.Error("failed to close spool file", "path", s.path, "error", err)
			return err
		}

		slog.Debug("closed spool", "path", s.path, "length", s.length)
	}

	return nil
}
