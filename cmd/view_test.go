package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCmd(t *testing.T) {
	t.Run("replays the saved plan", func(t *testing.T) {
		workDir := chdirTemp(t)
		mapping := writeTestMapping(t, workDir)

		project := filepath.Join(workDir, "app")
		writeProjectFile(t, filepath.Join(project, "lib", "header.dart"), planWidgetSource)

		_, err := executeRoot(t, "plan", project, "-m", mapping, "-o", "reports")
		require.NoError(t, err)

		output, err := executeRoot(t, "view", "-o", "reports")
		require.NoError(t, err)

		assert.Contains(t, output, "header.dart")
		assert.Contains(t, output, "+    return Container(color: Theme.of(context).colorScheme.primary);")
	})

	t.Run("no saved run errors", func(t *testing.T) {
		chdirTemp(t)

		_, err := executeRoot(t, "view", "-o", "reports")
		require.Error(t, err)
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		chdirTemp(t)

		_, err := executeRoot(t, "view", "./custom-reports")
		require.Error(t, err)
	})
}
