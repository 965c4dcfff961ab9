package model

// MappingTable is the user-authored migration contract. Keys in all three
// partitions are fully qualified legacy names such as "Palette.primaryBlue".
// The table is loaded once per run and never mutated by the refactoring core.
type MappingTable struct {
	// Namespaces lists the legacy constant holders whose members are
	// candidates for rewriting (e.g. "Palette").
	Namespaces []string `yaml:"namespaces"`

	// Strict maps a legacy name to a canonical ColorScheme slot
	// (e.g. "Palette.primaryBlue" -> "primary").
	Strict map[string]string `yaml:"strict"`

	// Extensions maps legacy names to (group, property) pairs for colors
	// that have no canonical slot. Groups are scanned in declared order and
	// a name legally belongs to at most one group.
	Extensions []ExtensionGroup `yaml:"extensions"`

	// Preserved lists names intentionally left untouched.
	Preserved []string `yaml:"preserved"`
}

// ExtensionGroup is a named ThemeExtension type and the legacy names that
// migrate into its properties.
type ExtensionGroup struct {
	Name       string            `yaml:"group"`
	Properties map[string]string `yaml:"properties"`
}

// HasNamespace reports whether qualifier is one of the configured legacy
// constant holders.
func (t MappingTable) HasNamespace(qualifier string) bool {
	for _, ns := range t.Namespaces {
		if ns == qualifier {
			return true
		}
	}

	return false
}

// IsPreserved reports whether name is explicitly excluded from rewriting.
func (t MappingTable) IsPreserved(name string) bool {
	for _, p := range t.Preserved {
		if p == name {
			return true
		}
	}

	return false
}

// ResolutionKind classifies how a located reference matched the mapping.
type ResolutionKind int

// Resolution kinds in priority order: a name found in both the strict table
// and an extension group always resolves strict.
const (
	ResolutionStrict ResolutionKind = iota
	ResolutionExtension
	ResolutionPreserved
	ResolutionUnmapped
)

// String returns a short human-readable name for the resolution kind.
func (k ResolutionKind) String() string {
	switch k {
	case ResolutionStrict:
		return "strict"
	case ResolutionExtension:
		return "extension"
	case ResolutionPreserved:
		return "preserved"
	case ResolutionUnmapped:
		return "unmapped"
	}

	return "unknown"
}
