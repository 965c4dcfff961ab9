package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/repaint-dev/repaint/internal/model"
)

func reviewFixture() (m.RefactorRun, []fileDiff) {
	run := changedRun()
	run.Results = append(run.Results, m.FileRefactorResult{
		Path:          "lib/footer.dart",
		OriginalText:  "color: Palette.accentGold\n",
		RewrittenText: "color: Theme.of(context).extension<BrandColors>()!.accent\n",
		Transformations: []m.Transformation{
			{Kind: m.TransformExtension, OldText: "Palette.accentGold"},
		},
	})

	files, _ := buildFileDiffs(run, m.ValidationReport{})

	return run, files
}

func TestBuildFileDiffs(t *testing.T) {
	t.Run("one entry per changed file", func(t *testing.T) {
		_, files := reviewFixture()

		require.Len(t, files, 2)
		assert.Equal(t, "lib/header.dart", files[0].path)
		assert.Equal(t, "lib/footer.dart", files[1].path)
		assert.Contains(t, files[0].content, "Palette.primaryBlue")
	})

	t.Run("issues are appended to their file", func(t *testing.T) {
		run := changedRun()
		report := m.ValidationReport{Issues: []m.Issue{
			{Severity: m.SeverityError, Path: "lib/header.dart", Message: "cannot work here", Suggestion: "do it by hand"},
			{Severity: m.SeverityWarning, Path: "lib/other.dart", Message: "elsewhere"},
		}}

		files, err := buildFileDiffs(run, report)
		require.NoError(t, err)
		require.Len(t, files, 1)

		assert.Contains(t, files[0].content, "cannot work here")
		assert.Contains(t, files[0].content, "hint: do it by hand")
		assert.NotContains(t, files[0].content, "elsewhere")
	})

	t.Run("unchanged runs yield nothing", func(t *testing.T) {
		files, err := buildFileDiffs(m.RefactorRun{}, m.ValidationReport{})
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestReviewModel(t *testing.T) {
	sized := func(t *testing.T) reviewModel {
		t.Helper()

		run, files := reviewFixture()
		model := newReviewModel(run, files)

		updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		rm, ok := updated.(reviewModel)
		require.True(t, ok)
		require.True(t, rm.ready)

		return rm
	}

	t.Run("renders title and current file", func(t *testing.T) {
		rm := sized(t)

		view := rm.View()
		assert.Contains(t, view, "[1/2] lib/header.dart")
		assert.Contains(t, view, "q: quit")
	})

	t.Run("navigates between files and clamps at the ends", func(t *testing.T) {
		rm := sized(t)

		next, _ := rm.handleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		rm = next.(reviewModel)
		assert.Contains(t, rm.View(), "[2/2] lib/footer.dart")

		// Already on the last file.
		next, _ = rm.handleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		rm = next.(reviewModel)
		assert.Contains(t, rm.View(), "[2/2]")

		prev, _ := rm.handleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
		rm = prev.(reviewModel)
		assert.Contains(t, rm.View(), "[1/2]")

		prev, _ = rm.handleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
		rm = prev.(reviewModel)
		assert.Contains(t, rm.View(), "[1/2]")
	})

	t.Run("quit keys emit the quit command", func(t *testing.T) {
		rm := sized(t)

		for _, msg := range []tea.KeyMsg{
			{Type: tea.KeyCtrlC},
			{Type: tea.KeyEsc},
			{Type: tea.KeyRunes, Runes: []rune{'q'}},
		} {
			_, cmd := rm.handleKeyPress(msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		}
	})

	t.Run("unsized model shows a placeholder", func(t *testing.T) {
		run, files := reviewFixture()
		model := newReviewModel(run, files)

		assert.Equal(t, "loading...", model.View())
	})
}
