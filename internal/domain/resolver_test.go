package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repaint-dev/repaint/internal/dart"
	m "github.com/repaint-dev/repaint/internal/model"
)

func parseSource(t *testing.T, src string) *dart.Unit {
	t.Helper()

	unit, err := dart.Parse("test.dart", []byte(src))
	require.NoError(t, err)

	return unit
}

func testTable() m.MappingTable {
	return m.MappingTable{
		Namespaces: []string{"Palette"},
		Strict: map[string]string{
			"Palette.primaryBlue": "primary",
			"Palette.surfaceGrey": "surface",
		},
		Extensions: []m.ExtensionGroup{
			{
				Name: "BrandColors",
				Properties: map[string]string{
					"Palette.accentGold":  "accent",
					"Palette.primaryBlue": "shadowed",
				},
			},
			{
				Name: "ChartColors",
				Properties: map[string]string{
					"Palette.accentGold": "line",
					"Palette.gridLine":   "grid",
				},
			},
		},
		Preserved: []string{"Palette.debugPink"},
	}
}

func TestResolveReferences(t *testing.T) {
	src := `void f(BuildContext context) {
  final a = Palette.primaryBlue;
  final b = Palette.accentGold;
  final c = Palette.gridLine;
  final d = Palette.debugPink;
  final e = Palette.mystery;
  final f = Theme.primaryBlue;
}
`
	unit := parseSource(t, src)
	resolutions := ResolveReferences(unit, testTable())

	require.Len(t, resolutions, 5)

	t.Run("strict wins over extension groups", func(t *testing.T) {
		res := resolutions[0]
		assert.Equal(t, "Palette.primaryBlue", res.Ref.Name)
		assert.Equal(t, m.ResolutionStrict, res.Kind)
		assert.Equal(t, "primary", res.Target)
		assert.Empty(t, res.Group)
	})

	t.Run("first declared group wins", func(t *testing.T) {
		res := resolutions[1]
		assert.Equal(t, m.ResolutionExtension, res.Kind)
		assert.Equal(t, "BrandColors", res.Group)
		assert.Equal(t, "accent", res.Target)
	})

	t.Run("later groups still resolve their own names", func(t *testing.T) {
		res := resolutions[2]
		assert.Equal(t, m.ResolutionExtension, res.Kind)
		assert.Equal(t, "ChartColors", res.Group)
		assert.Equal(t, "grid", res.Target)
	})

	t.Run("preserved names are recorded, not rewritten", func(t *testing.T) {
		res := resolutions[3]
		assert.Equal(t, m.ResolutionPreserved, res.Kind)
		assert.Empty(t, res.Target)
	})

	t.Run("unknown members of a namespace are unmapped", func(t *testing.T) {
		res := resolutions[4]
		assert.Equal(t, "Palette.mystery", res.Ref.Name)
		assert.Equal(t, m.ResolutionUnmapped, res.Kind)
	})

	t.Run("foreign qualifiers are not candidates", func(t *testing.T) {
		for _, res := range resolutions {
			assert.Equal(t, "Palette", res.Ref.Node.Qualifier)
		}
	})
}

func TestResolveReferences_LocationMetadata(t *testing.T) {
	src := "final x = Palette.primaryBlue;\n"
	unit := parseSource(t, src)

	resolutions := ResolveReferences(unit, testTable())
	require.Len(t, resolutions, 1)

	ref := resolutions[0].Ref
	assert.Equal(t, "Palette.primaryBlue", ref.Text)
	assert.Equal(t, len("final x = "), ref.Offset)
	assert.Equal(t, len("Palette.primaryBlue"), ref.Length)
	assert.Equal(t, 1, ref.Line)
	assert.Equal(t, 11, ref.Column)
	require.NotNil(t, ref.Node)
}

func TestResolveReferences_Deterministic(t *testing.T) {
	src := `void f() {
  final a = Palette.primaryBlue;
  final b = Palette.accentGold;
}
`
	unit := parseSource(t, src)
	table := testTable()

	first := ResolveReferences(unit, table)
	second := ResolveReferences(unit, table)

	assert.Equal(t, first, second)
}
