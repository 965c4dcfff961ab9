package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/repaint-dev/repaint/internal/model"
)

// ReviewTUI presents a plan as a full-screen diff reviewer: one changed file
// at a time in a scrollable viewport. Every other presentation falls back to
// the embedded SimpleUI.
type ReviewTUI struct {
	*SimpleUI
}

// NewReviewTUI creates a ReviewTUI wrapping the given SimpleUI.
func NewReviewTUI(simple *SimpleUI) *ReviewTUI {
	return &ReviewTUI{SimpleUI: simple}
}

// PresentPlan runs the interactive reviewer. Plans without changes are
// printed plainly; there is nothing to page through.
func (t *ReviewTUI) PresentPlan(ctx context.Context, run m.RefactorRun, report m.ValidationReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	files, err := buildFileDiffs(run, report)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return t.SimpleUI.PresentPlan(ctx, run, report)
	}

	model := newReviewModel(run, files)

	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	// Keep the summary on the scrollback after the alt screen closes.
	t.printf("\n%s", renderRunTable(run))
	t.presentIssues(report)

	return nil
}

// fileDiff is one changed file prepared for review.
type fileDiff struct {
	path    string
	content string
}

func buildFileDiffs(run m.RefactorRun, report m.ValidationReport) ([]fileDiff, error) {
	var files []fileDiff

	for _, result := range run.Results {
		if !result.HasChanges() {
			continue
		}

		diff, err := UnifiedDiff(string(result.Path), result.OriginalText, result.RewrittenText)
		if err != nil {
			return nil, err
		}

		content := ColorizeDiff(diff)

		for _, issue := range report.Issues {
			if issue.Path != result.Path {
				continue
			}

			label := warnStyle.Render("warning:")
			if issue.Severity == m.SeverityError {
				label = errStyle.Render("error:")
			}

			content += fmt.Sprintf("\n%s %s", label, issue.Message)

			if issue.Suggestion != "" {
				content += fmt.Sprintf("\n  hint: %s", issue.Suggestion)
			}
		}

		files = append(files, fileDiff{path: string(result.Path), content: content})
	}

	return files, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// reviewModel is the Bubble Tea model behind the diff reviewer.
type reviewModel struct {
	run      m.RefactorRun
	files    []fileDiff
	index    int
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func newReviewModel(run m.RefactorRun, files []fileDiff) reviewModel {
	return reviewModel{run: run, files: files}
}

func (rm reviewModel) Init() tea.Cmd {
	return nil
}

func (rm reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return rm.resize(msg), nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	}

	return rm, nil
}

// chrome is the number of lines reserved for the title and help bars.
const chrome = 3

func (rm reviewModel) resize(msg tea.WindowSizeMsg) reviewModel {
	rm.width = msg.Width
	rm.height = msg.Height

	if !rm.ready {
		rm.viewport = viewport.New(msg.Width, msg.Height-chrome)
		rm.viewport.SetContent(rm.files[rm.index].content)
		rm.ready = true

		return rm
	}

	rm.viewport.Width = msg.Width
	rm.viewport.Height = msg.Height - chrome

	return rm
}

//nolint:exhaustive // Only navigation keys are handled; the rest scroll the viewport.
func (rm reviewModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return rm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		return rm, tea.Quit

	case "right", "l", "n", "tab":
		return rm.selectFile(rm.index + 1), nil

	case "left", "h", "p", "shift+tab":
		return rm.selectFile(rm.index - 1), nil
	}

	var cmd tea.Cmd

	rm.viewport, cmd = rm.viewport.Update(msg)

	return rm, cmd
}

func (rm reviewModel) selectFile(index int) reviewModel {
	if index < 0 || index >= len(rm.files) || !rm.ready {
		return rm
	}

	rm.index = index
	rm.viewport.SetContent(rm.files[rm.index].content)
	rm.viewport.GotoTop()

	return rm
}

func (rm reviewModel) View() string {
	if !rm.ready {
		return "loading..."
	}

	var b strings.Builder

	title := fmt.Sprintf("repaint plan %s  [%d/%d] %s",
		rm.run.ID, rm.index+1, len(rm.files), rm.files[rm.index].path)
	b.WriteString(titleStyle.Width(rm.width).Render(title))
	b.WriteString("\n")
	b.WriteString(rm.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ←/→: file | ↑/↓: scroll | q: quit"))

	return b.String()
}
