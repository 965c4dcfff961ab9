package adapter

import (
	"github.com/repaint-dev/repaint/internal/dart"
	m "github.com/repaint-dev/repaint/internal/model"
)

// DartFileAdapter encapsulates Dart parsing so the domain layer can focus on
// resolution and rewriting rules while delegating syntax details to an
// infrastructure component.
type DartFileAdapter interface {
	// Parse builds a structural syntax tree for the provided path/source pair.
	Parse(path m.Path, src []byte) (*dart.Unit, error)
}

// LocalDartFileAdapter provides a concrete DartFileAdapter backed by the
// internal structural parser.
type LocalDartFileAdapter struct{}

// NewLocalDartFileAdapter constructs a LocalDartFileAdapter.
func NewLocalDartFileAdapter() *LocalDartFileAdapter {
	return &LocalDartFileAdapter{}
}

// Parse builds a syntax tree for the provided path/source pair.
func (a *LocalDartFileAdapter) Parse(path m.Path, src []byte) (*dart.Unit, error) {
	return dart.Parse(string(path), src)
}
