package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applyWidgetSource = `import 'package:flutter/material.dart';

class Header extends StatelessWidget {
  Widget build(BuildContext context) {
    return Container(color: Palette.primaryBlue);
  }
}
`

const applyConstSource = `import 'package:flutter/material.dart';

class Badge {
  const Badge() : color = Palette.primaryBlue;
}
`

func TestApplyCmd(t *testing.T) {
	t.Run("rewrites files and reports the backup", func(t *testing.T) {
		workDir := chdirTemp(t)
		mapping := writeTestMapping(t, workDir)

		project := filepath.Join(workDir, "app")
		source := filepath.Join(project, "lib", "header.dart")
		writeProjectFile(t, source, applyWidgetSource)

		output, err := executeRoot(t, "apply", project, "-m", mapping, "-o", "reports")
		require.NoError(t, err)

		content, err := os.ReadFile(source)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Theme.of(context).colorScheme.primary")
		assert.NotContains(t, string(content), "Palette.primaryBlue")

		assert.Contains(t, output, "Backup")
		assert.Contains(t, output, "repaint backup restore")

		// A snapshot landed under the default backup root.
		entries, err := os.ReadDir(filepath.Join(workDir, defaultBackupRoot))
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("validation errors block the write", func(t *testing.T) {
		workDir := chdirTemp(t)
		mapping := writeTestMapping(t, workDir)

		project := filepath.Join(workDir, "app")
		source := filepath.Join(project, "lib", "badge.dart")
		writeProjectFile(t, source, applyConstSource)

		_, err := executeRoot(t, "apply", project, "-m", mapping, "-o", "reports")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocking issue")

		content, readErr := os.ReadFile(source)
		require.NoError(t, readErr)
		assert.Equal(t, applyConstSource, string(content))
	})

	t.Run("force overrides the gate", func(t *testing.T) {
		workDir := chdirTemp(t)
		mapping := writeTestMapping(t, workDir)

		// --force sticks on the shared command; reset for later tests.
		t.Cleanup(func() {
			applyForceFlag = false

			if flag := applyCmd.Flags().Lookup("force"); flag != nil {
				flag.Changed = false
			}
		})

		project := filepath.Join(workDir, "app")
		source := filepath.Join(project, "lib", "badge.dart")
		writeProjectFile(t, source, applyConstSource)

		_, err := executeRoot(t, "apply", project, "-m", mapping, "-o", "reports", "--force")
		require.NoError(t, err)

		content, err := os.ReadFile(source)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Theme.of(context)")
	})
}
