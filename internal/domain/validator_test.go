package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repaint-dev/repaint/internal/adapter"
	m "github.com/repaint-dev/repaint/internal/model"
)

func changedResult(path, rewritten string) m.FileRefactorResult {
	return m.FileRefactorResult{
		Path:          m.Path(path),
		RewrittenText: rewritten,
		Transformations: []m.Transformation{
			{Offset: 0, Length: 1, OldText: "x", NewText: "y"},
		},
	}
}

func TestValidateFile(t *testing.T) {
	validator := NewValidator(adapter.NewLocalDartFileAdapter())

	t.Run("clean rewrite passes", func(t *testing.T) {
		result := changedResult("lib/a.dart", `import 'package:flutter/material.dart';

class A extends StatelessWidget {
  Widget build(BuildContext context) {
    return Container(color: Theme.of(context).colorScheme.primary);
  }
}
`)
		assert.Empty(t, validator.ValidateFile(result))
	})

	t.Run("unparsable rewrite is an error", func(t *testing.T) {
		result := changedResult("lib/a.dart", "class A {")

		issues := validator.ValidateFile(result)
		require.Len(t, issues, 1)
		assert.Equal(t, m.SeverityError, issues[0].Severity)
		assert.Contains(t, issues[0].Message, "no longer parses")
	})

	t.Run("theme lookup in a const constructor is an error", func(t *testing.T) {
		result := changedResult("lib/a.dart", `import 'package:flutter/material.dart';

class Badge {
  const Badge() : color = Theme.of(context).colorScheme.primary;
}
`)
		issues := validator.ValidateFile(result)
		require.Len(t, issues, 1)
		assert.Equal(t, m.SeverityError, issues[0].Severity)
		assert.Positive(t, issues[0].Line)
		assert.NotEmpty(t, issues[0].Suggestion)
	})

	t.Run("theme lookup in a plain method is a warning", func(t *testing.T) {
		result := changedResult("lib/a.dart", `import 'package:flutter/material.dart';

class Helper {
  Color shade() => Theme.of(context).colorScheme.primary;
}
`)
		issues := validator.ValidateFile(result)
		require.Len(t, issues, 1)
		assert.Equal(t, m.SeverityWarning, issues[0].Severity)
		assert.Contains(t, issues[0].Message, "BuildContext")
	})

	t.Run("missing material import is a warning", func(t *testing.T) {
		result := changedResult("lib/a.dart", `class A extends StatelessWidget {
  Widget build(BuildContext context) {
    return Container(color: Theme.of(context).colorScheme.primary);
  }
}
`)
		issues := validator.ValidateFile(result)
		require.Len(t, issues, 1)
		assert.Equal(t, m.SeverityWarning, issues[0].Severity)
		assert.Contains(t, issues[0].Suggestion, "package:flutter/material.dart")
	})

	t.Run("files without lookups need no import", func(t *testing.T) {
		result := changedResult("lib/a.dart", "final x = 1;\n")

		assert.Empty(t, validator.ValidateFile(result))
	})
}

func TestValidateRun(t *testing.T) {
	validator := NewValidator(adapter.NewLocalDartFileAdapter())

	t.Run("only changed files are judged", func(t *testing.T) {
		run := m.RefactorRun{
			Results: []m.FileRefactorResult{
				{
					// Unchanged file with pre-existing oddities stays out of
					// the report.
					Path:          "lib/old.dart",
					RewrittenText: "class A {",
				},
				changedResult("lib/new.dart", "class B {"),
			},
		}

		report := validator.ValidateRun(run)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, m.Path("lib/new.dart"), report.Issues[0].Path)
	})

	t.Run("severities split", func(t *testing.T) {
		run := m.RefactorRun{
			Results: []m.FileRefactorResult{
				changedResult("lib/err.dart", `import 'package:flutter/material.dart';

class Badge {
  const Badge() : color = Theme.of(context).colorScheme.primary;
}
`),
				changedResult("lib/warn.dart", `import 'package:flutter/material.dart';

class Helper {
  Color shade() => Theme.of(context).colorScheme.primary;
}
`),
			},
		}

		report := validator.ValidateRun(run)
		assert.True(t, report.HasErrors())
		assert.Len(t, report.Errors(), 1)
		assert.Len(t, report.Warnings(), 1)
	})
}
