// Package ui implements the interactive deletion review: findings are
// presented one at a time and the user accepts, skips, or quits.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/driftdetect/deadwood/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	locStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	acceptedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type model struct {
	findings []models.Finding
	index    int
	accepted map[int]bool
	done     bool
	aborted  bool
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		m.aborted = true
		return m, tea.Quit
	case "y", "d":
		m.accepted[m.index] = true
		m.index++
	case "n", "s":
		m.index++
	case "a":
		for i := m.index; i < len(m.findings); i++ {
			m.accepted[i] = true
		}
		m.index = len(m.findings)
	}
	if m.index >= len(m.findings) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.done || m.aborted || m.index >= len(m.findings) {
		return ""
	}
	f := m.findings[m.index]
	header := titleStyle.Render("Review deletions") + locStyle.Render(
		fmt.Sprintf("  (%d of %d, %d accepted)", m.index+1, len(m.findings), len(m.accepted)))
	body := fmt.Sprintf("%s %s\n%s\n%s",
		codeStyle.Render(string(f.Code)),
		f.Message,
		locStyle.Render(fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)),
		acceptedStyle.Render(fmt.Sprintf("confidence: %s", f.Confidence)))
	help := helpStyle.Render("y delete  n skip  a delete all remaining  q quit")
	return fmt.Sprintf("%s\n\n%s\n\n%s\n", header, body, help)
}

// Review runs the TUI and returns the findings the user accepted for
// deletion. An aborted session returns nil.
func Review(findings []models.Finding) ([]models.Finding, error) {
	if len(findings) == 0 {
		return nil, nil
	}
	initial := model{findings: findings, accepted: make(map[int]bool)}
	final, err := tea.NewProgram(initial).Run()
	if err != nil {
		return nil, err
	}
	m := final.(model)
	if m.aborted {
		return nil, nil
	}
	var accepted []models.Finding
	for i := range findings {
		if m.accepted[i] {
			accepted = append(accepted, findings[i])
		}
	}
	return accepted, nil
}
