package dart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetFixture = `import 'package:flutter/material.dart';
import 'palette.dart';

const fallback = Palette.primaryBlue;

class Header extends StatelessWidget {
  const Header({super.key});

  @override
  Widget build(BuildContext context) {
    return Container(color: Palette.primaryBlue);
  }
}

class Legend {
  static Color pick() => Palette.accentGold;
}

Color helper() {
  return Palette.accentGold;
}
`

func parseFixture(t *testing.T, src string) *Unit {
	t.Helper()

	unit, err := Parse("test.dart", []byte(src))
	require.NoError(t, err)

	return unit
}

func TestParse_Declarations(t *testing.T) {
	unit := parseFixture(t, widgetFixture)

	t.Run("imports", func(t *testing.T) {
		require.Len(t, unit.Imports, 2)
		assert.True(t, unit.HasImport("package:flutter/material.dart"))
		assert.True(t, unit.HasImport("palette.dart"))
		assert.False(t, unit.HasImport("package:flutter/widgets.dart"))
	})

	t.Run("classes and supertypes", func(t *testing.T) {
		require.Len(t, unit.Classes, 2)

		header := unit.Classes[0]
		assert.Equal(t, "Header", header.Name)
		assert.Equal(t, []string{"StatelessWidget"}, header.Supertypes)
		assert.True(t, header.HasSupertypeContaining("Widget"))
		assert.False(t, header.HasSupertypeContaining("State"))

		legend := unit.Classes[1]
		assert.Equal(t, "Legend", legend.Name)
		assert.Empty(t, legend.Supertypes)
	})

	t.Run("constructor and methods", func(t *testing.T) {
		header := unit.Classes[0]
		require.Len(t, header.Methods, 2)

		ctor := header.Methods[0]
		assert.True(t, ctor.IsConstructor)
		assert.True(t, ctor.IsConst)
		assert.Equal(t, "Header", ctor.Name)

		build := header.Methods[1]
		assert.Equal(t, "build", build.Name)
		assert.False(t, build.IsStatic)
		assert.Equal(t, BodyBlock, build.Body)

		param, ok := build.ParamOfType("BuildContext")
		require.True(t, ok)
		assert.Equal(t, "context", param.Name)
	})

	t.Run("static method", func(t *testing.T) {
		legend := unit.Classes[1]
		require.Len(t, legend.Methods, 1)
		assert.Equal(t, "pick", legend.Methods[0].Name)
		assert.True(t, legend.Methods[0].IsStatic)
		assert.Equal(t, BodyExpression, legend.Methods[0].Body)
	})

	t.Run("top-level function and variable", func(t *testing.T) {
		require.Len(t, unit.Functions, 1)
		assert.Equal(t, "helper", unit.Functions[0].Name)
		assert.Equal(t, BodyBlock, unit.Functions[0].Body)

		require.Len(t, unit.Variables, 1)
		assert.Equal(t, "fallback", unit.Variables[0].Name)
	})
}

func TestParse_References(t *testing.T) {
	unit := parseFixture(t, widgetFixture)

	var paletteRefs []*Reference

	for _, ref := range unit.References() {
		if ref.Qualifier == "Palette" {
			paletteRefs = append(paletteRefs, ref)
		}
	}

	require.Len(t, paletteRefs, 4)
	assert.Equal(t, "Palette.primaryBlue", paletteRefs[0].Name())
	assert.Equal(t, "Palette.primaryBlue", paletteRefs[1].Name())
	assert.Equal(t, "Palette.accentGold", paletteRefs[2].Name())
	assert.Equal(t, "Palette.accentGold", paletteRefs[3].Name())

	t.Run("offsets address the source text", func(t *testing.T) {
		for _, ref := range paletteRefs {
			assert.Equal(t, ref.Name(), string(unit.Source[ref.Pos():ref.End()]))
		}
	})

	t.Run("references in source order", func(t *testing.T) {
		for i := 1; i < len(paletteRefs); i++ {
			assert.Greater(t, paletteRefs[i].Pos(), paletteRefs[i-1].Pos())
		}
	})

	t.Run("parent chains reach the enclosing declaration", func(t *testing.T) {
		// First occurrence sits in the top-level initializer.
		varDecl, ok := paletteRefs[0].Parent().(*VarDecl)
		require.True(t, ok)
		assert.Equal(t, "fallback", varDecl.Name)

		// Second occurrence sits in Header.build.
		method, ok := paletteRefs[1].Parent().(*MethodDecl)
		require.True(t, ok)
		assert.Equal(t, "build", method.Name)
		assert.Equal(t, "Header", method.Class.Name)
	})

	t.Run("position is 1-based", func(t *testing.T) {
		line, column := unit.Position(paletteRefs[0].Pos())
		assert.Equal(t, 4, line)
		assert.Equal(t, 18, column)
	})
}

func TestParse_ReferencesSkipNoise(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			"inside string literal",
			`final s = 'Palette.primaryBlue';`,
			0,
		},
		{
			"inside line comment",
			"// Palette.primaryBlue\nfinal x = 1;",
			0,
		},
		{
			"inside block comment",
			"/* Palette.primaryBlue /* nested */ */\nfinal x = 1;",
			0,
		},
		{
			"inside raw string",
			`final s = r'Palette.primaryBlue $x';`,
			0,
		},
		{
			"inside interpolation stays atomic",
			"final s = '${Palette.primaryBlue}';",
			0,
		},
		{
			"chained member access yields the leading pair only",
			`final c = Palette.primaryBlue.withOpacity(0.5);`,
			1,
		},
		{
			"cascade selector never starts a reference",
			"void f(p) {\n  p..Palette.shade;\n}",
			0,
		},
		{
			"triple quoted string",
			"final s = '''\nPalette.primaryBlue\n''';",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseFixture(t, tt.src)

			count := 0

			for _, ref := range unit.References() {
				if ref.Qualifier == "Palette" {
					count++
				}
			}

			assert.Equal(t, tt.want, count)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed brace", "class A {"},
		{"unmatched closer", "class A {}}"},
		{"unterminated string", "final s = 'abc;\n"},
		{"unterminated block comment", "/* never closed"},
		{"unterminated interpolation", "final s = '${1 + 2';"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("broken.dart", []byte(tt.src))
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "broken.dart", parseErr.Path)
			assert.Positive(t, parseErr.Line)
		})
	}
}

func TestParse_StateClass(t *testing.T) {
	src := `class _CardState extends State<Card> {
  Color shade(BuildContext ctx) => Palette.primaryBlue;
}
`
	unit := parseFixture(t, src)

	require.Len(t, unit.Classes, 1)
	cls := unit.Classes[0]
	assert.Equal(t, []string{"State"}, cls.Supertypes)
	assert.True(t, cls.HasSupertypeContaining("State"))

	require.Len(t, cls.Methods, 1)
	param, ok := cls.Methods[0].ParamOfType("BuildContext")
	require.True(t, ok)
	assert.Equal(t, "ctx", param.Name)
}

func TestParse_EnumAndMixin(t *testing.T) {
	src := `enum Status { active, inactive }

mixin Paintable on Widget {
  void paint() {}
}
`
	unit := parseFixture(t, src)

	require.Len(t, unit.Classes, 2)
	assert.Equal(t, "Status", unit.Classes[0].Name)
	assert.Equal(t, "Paintable", unit.Classes[1].Name)
	assert.Equal(t, []string{"Widget"}, unit.Classes[1].Supertypes)
}

func TestParse_FactoryRedirect(t *testing.T) {
	src := `class Palette {
  const Palette._();

  factory Palette.std() = Palette._;
}
`
	unit := parseFixture(t, src)

	require.Len(t, unit.Classes, 1)
	require.Len(t, unit.Classes[0].Methods, 2)
	assert.True(t, unit.Classes[0].Methods[0].IsConst)
	assert.True(t, unit.Classes[0].Methods[1].IsConstructor)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("StatelessWidget", "Widget"))
	assert.True(t, containsWord("State", "State"))
	assert.True(t, containsWord("WidgetSpan", "Widget"))
	assert.False(t, containsWord("Widgetry", "Widget"))
	assert.False(t, containsWord("Statement", "State"))
}
