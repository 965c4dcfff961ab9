package controller

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	t.Run("single line change", func(t *testing.T) {
		original := "line one\nline two\nline three\n"
		rewritten := "line one\nline 2\nline three\n"

		diff, err := UnifiedDiff("lib/a.dart", original, rewritten)
		require.NoError(t, err)

		assert.Contains(t, diff, "--- lib/a.dart")
		assert.Contains(t, diff, "+++ lib/a.dart (rewritten)")
		assert.Contains(t, diff, "-line two")
		assert.Contains(t, diff, "+line 2")
		assert.Contains(t, diff, " line one")
	})

	t.Run("identical texts produce an empty diff", func(t *testing.T) {
		diff, err := UnifiedDiff("lib/a.dart", "same\n", "same\n")
		require.NoError(t, err)
		assert.Empty(t, diff)
	})
}

func TestColorizeDiff(t *testing.T) {
	diff := strings.Join([]string{
		"--- a",
		"+++ b",
		"@@ -1 +1 @@",
		"-old",
		"+new",
		" context",
	}, "\n")

	colored := ColorizeDiff(diff)

	// Styling must not add or drop lines.
	assert.Len(t, strings.Split(colored, "\n"), 6)

	// Context lines pass through untouched.
	assert.Contains(t, colored, "\n context")
}
