// Package domain implements the refactoring core: reference resolution,
// context analysis, transformation synthesis, backup management, validation,
// and the workflows that tie them together.
package domain

import (
	"github.com/repaint-dev/repaint/internal/dart"
	m "github.com/repaint-dev/repaint/internal/model"
)

// Resolution pairs a located reference with the mapping rule it matched.
// Group is set only for extension resolutions; Target is the ColorScheme
// slot for strict ones and the extension property otherwise.
type Resolution struct {
	Ref    m.ColorReference
	Kind   m.ResolutionKind
	Group  string
	Target string
}

// ResolveReferences walks every qualified-name occurrence in the unit and
// classifies the ones whose qualifier is a configured legacy namespace.
// Strict mappings win over extension groups; extension groups are scanned in
// declared order; preserved names are recorded but never rewritten. The
// function is pure: same unit and table, same resolutions.
func ResolveReferences(unit *dart.Unit, table m.MappingTable) []Resolution {
	var resolutions []Resolution

	for _, ref := range unit.References() {
		if !table.HasNamespace(ref.Qualifier) {
			continue
		}

		name := ref.Name()
		line, column := unit.Position(ref.Pos())

		resolution := Resolution{
			Ref: m.ColorReference{
				Name:   name,
				Offset: ref.Pos(),
				Length: ref.End() - ref.Pos(),
				Text:   string(unit.Source[ref.Pos():ref.End()]),
				Line:   line,
				Column: column,
				Node:   ref,
			},
			Kind: m.ResolutionUnmapped,
		}

		switch {
		case table.Strict[name] != "":
			resolution.Kind = m.ResolutionStrict
			resolution.Target = table.Strict[name]
		default:
			if group, property, ok := extensionTarget(table, name); ok {
				resolution.Kind = m.ResolutionExtension
				resolution.Group = group
				resolution.Target = property
			} else if table.IsPreserved(name) {
				resolution.Kind = m.ResolutionPreserved
			}
		}

		resolutions = append(resolutions, resolution)
	}

	return resolutions
}

// extensionTarget finds the first declared group claiming name.
func extensionTarget(table m.MappingTable, name string) (group, property string, ok bool) {
	for _, g := range table.Extensions {
		if p, found := g.Properties[name]; found {
			return g.Name, p, true
		}
	}

	return "", "", false
}
