package model

// TransformKind is the category of a transformation.
type TransformKind int

const (
	// TransformStrict rewrites to a canonical ColorScheme slot.
	TransformStrict TransformKind = iota
	// TransformExtension rewrites to a ThemeExtension group property.
	TransformExtension
)

// String returns a short human-readable name for the transform kind.
func (k TransformKind) String() string {
	if k == TransformExtension {
		return "extension"
	}

	return "strict"
}

// Transformation is one intended edit: replace the Length bytes at Offset
// (which must read OldText) with NewText. Transformations within a file must
// not overlap; the engine rejects overlapping sets instead of resolving them.
type Transformation struct {
	Offset      int
	Length      int
	OldText     string
	NewText     string
	Kind        TransformKind
	Description string
}

// End returns the byte offset one past the replaced range.
func (t Transformation) End() int {
	return t.Offset + t.Length
}
