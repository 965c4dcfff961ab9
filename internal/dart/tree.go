package dart

import "sort"

// NodeKind identifies the variant of a syntax node.
type NodeKind int

// Node kinds produced by the structural parser.
const (
	KindUnit NodeKind = iota
	KindImport
	KindClass
	KindMethod
	KindFunction
	KindVariable
	KindReference
)

// Node is the navigation surface the refactoring core sees: a kind, a byte
// range, and the parent chain. Concrete variants carry the declaration
// metadata the context analyzer needs.
type Node interface {
	Kind() NodeKind
	Pos() int
	End() int
	Parent() Node
}

type base struct {
	pos    int
	end    int
	parent Node
}

func (b *base) Pos() int     { return b.pos }
func (b *base) End() int     { return b.end }
func (b *base) Parent() Node { return b.parent }

// Unit is one parsed source file. It owns the original bytes, the line
// index, and every reference collected in source order.
type Unit struct {
	base
	Path      string
	Source    []byte
	Imports   []*ImportDirective
	Classes   []*ClassDecl
	Functions []*FuncDecl
	Variables []*VarDecl

	refs        []*Reference
	decls       []Node
	lineOffsets []int
}

// Kind implements Node.
func (u *Unit) Kind() NodeKind { return KindUnit }

// References returns every qualified-name occurrence in source order.
func (u *Unit) References() []*Reference { return u.refs }

// HasImport reports whether the unit imports the given URI.
func (u *Unit) HasImport(uri string) bool {
	for _, imp := range u.Imports {
		if imp.URI == uri {
			return true
		}
	}

	return false
}

// Position converts a byte offset to a 1-based line and column.
func (u *Unit) Position(offset int) (line, column int) {
	idx := sort.Search(len(u.lineOffsets), func(i int) bool {
		return u.lineOffsets[i] > offset
	})

	line = idx
	column = offset - u.lineOffsets[idx-1] + 1

	return line, column
}

func (u *Unit) buildLineIndex() {
	u.lineOffsets = append(u.lineOffsets, 0)
	for i, c := range u.Source {
		if c == '\n' {
			u.lineOffsets = append(u.lineOffsets, i+1)
		}
	}
}

// ImportDirective is one import statement.
type ImportDirective struct {
	base
	URI string
}

// Kind implements Node.
func (d *ImportDirective) Kind() NodeKind { return KindImport }

// ClassDecl is a class, mixin, enum, or extension declaration.
type ClassDecl struct {
	base
	Name string

	// Supertypes lists the names from extends/with/implements/on clauses,
	// generics stripped.
	Supertypes []string

	Methods []*MethodDecl
	Fields  []*VarDecl
}

// Kind implements Node.
func (c *ClassDecl) Kind() NodeKind { return KindClass }

// HasSupertypeContaining reports whether any declared supertype name
// contains the marker substring.
func (c *ClassDecl) HasSupertypeContaining(marker string) bool {
	for _, s := range c.Supertypes {
		if containsWord(s, marker) {
			return true
		}
	}

	return false
}

// BodyKind describes the shape of a function or method body.
type BodyKind int

const (
	// BodyNone means the declaration ends in a semicolon (abstract or
	// external).
	BodyNone BodyKind = iota
	// BodyEmpty is a block body with no tokens inside.
	BodyEmpty
	// BodyExpression is an arrow body.
	BodyExpression
	// BodyBlock is a non-empty block body.
	BodyBlock
)

// Param is one formal parameter, reduced to the head of its type and its
// name. Field formals (this.x) carry an empty type.
type Param struct {
	Type string
	Name string
}

// MethodDecl is a method or constructor inside a class.
type MethodDecl struct {
	base
	Name          string
	Class         *ClassDecl
	IsStatic      bool
	IsConst       bool
	IsConstructor bool
	Params        []Param
	Body          BodyKind
}

// Kind implements Node.
func (m *MethodDecl) Kind() NodeKind { return KindMethod }

// ParamOfType returns the first parameter whose type head matches.
func (m *MethodDecl) ParamOfType(typeName string) (Param, bool) {
	return paramOfType(m.Params, typeName)
}

// FuncDecl is a top-level function.
type FuncDecl struct {
	base
	Name   string
	Params []Param
	Body   BodyKind
}

// Kind implements Node.
func (f *FuncDecl) Kind() NodeKind { return KindFunction }

// ParamOfType returns the first parameter whose type head matches.
func (f *FuncDecl) ParamOfType(typeName string) (Param, bool) {
	return paramOfType(f.Params, typeName)
}

// VarDecl is a field or top-level variable, its range covering any
// initializer. References inside it live in static-initializer context.
type VarDecl struct {
	base
	Name  string
	Class *ClassDecl
}

// Kind implements Node.
func (v *VarDecl) Kind() NodeKind { return KindVariable }

// Reference is a qualified-name occurrence (Qualifier.Member) outside
// strings and comments.
type Reference struct {
	base
	Qualifier string
	Member    string
}

// Kind implements Node.
func (r *Reference) Kind() NodeKind { return KindReference }

// Name returns the dotted form of the reference.
func (r *Reference) Name() string { return r.Qualifier + "." + r.Member }

func paramOfType(params []Param, typeName string) (Param, bool) {
	for _, p := range params {
		if p.Type == typeName {
			return p, true
		}
	}

	return Param{}, false
}

// containsWord reports whether name contains marker as a complete camel-case
// word segment, e.g. "StatelessWidget" contains "Widget" but "Widgetry" does
// not end the segment at the marker.
func containsWord(name, marker string) bool {
	for i := 0; i+len(marker) <= len(name); i++ {
		if name[i:i+len(marker)] != marker {
			continue
		}

		next := i + len(marker)
		if next == len(name) || !isLower(name[next]) {
			return true
		}
	}

	return false
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
