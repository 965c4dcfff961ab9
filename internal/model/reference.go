package model

import "github.com/repaint-dev/repaint/internal/dart"

// ColorReference is a located occurrence of a qualified legacy constant
// (Namespace.member) inside one source file. It exists only for the duration
// of that file's processing pass; Node keeps the enclosing-scope handle the
// context analyzer walks upward from.
type ColorReference struct {
	Name   string
	Offset int
	Length int
	Text   string
	Line   int
	Column int
	Node   *dart.Reference
}
