package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mcdonaldj/reltag/internal/ports"
)

// View represents the current view state
type View int

const (
	SummaryView View = iota
	ConfirmView // Confirming tag creation
	ResultView  // Showing the tagging result
)

// Model is the main TUI model
type Model struct {
	svc      ports.TUIService
	repoPath string
	view     View
	width    int
	height   int
	quitting bool

	// Summary view
	summary   ports.TUISummary
	loaded    bool
	tagCursor int

	// Result view
	result  ports.TUITagResult
	working bool

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tag     key.Binding
	Confirm key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Tag: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tag release"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "confirm"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates a new TUI model backed by the given service
func NewModel(svc ports.TUIService, repoPath string) *Model {
	return &Model{
		svc:      svc,
		repoPath: repoPath,
		view:     SummaryView,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.loadSummary()
}

// loadSummary fetches the repository summary in the background
func (m *Model) loadSummary() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.svc.Summary(m.repoPath)
		return summaryMsg{summary: summary, err: err}
	}
}

// ensureTag creates and pushes the release tag in the background
func (m *Model) ensureTag() tea.Cmd {
	return func() tea.Msg {
		return tagDoneMsg{result: m.svc.EnsureTag(m.repoPath)}
	}
}

type summaryMsg struct {
	summary ports.TUISummary
	err     error
}

type tagDoneMsg struct {
	result ports.TUITagResult
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case summaryMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.summary = msg.summary
		m.loaded = true
		if m.tagCursor >= len(m.summary.Tags) {
			m.tagCursor = len(m.summary.Tags) - 1
		}
		if m.tagCursor < 0 {
			m.tagCursor = 0
		}
		return m, nil

	case tagDoneMsg:
		m.working = false
		m.result = msg.result
		m.view = ResultView
		return m, nil

	case tea.KeyMsg:
		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Tag):
			if m.view == SummaryView {
				if !m.loaded {
					m.statusMsg = "Still loading..."
					return m, nil
				}
				if m.summary.TagExists {
					m.statusMsg = fmt.Sprintf("%s already exists", m.summary.TagName)
					return m, nil
				}
				m.view = ConfirmView
			}

		case key.Matches(msg, keys.Confirm):
			if m.view == ConfirmView && !m.working {
				m.working = true
				return m, m.ensureTag()
			}

		case key.Matches(msg, keys.Back):
			switch m.view {
			case ConfirmView:
				m.view = SummaryView
			case ResultView:
				m.view = SummaryView
				return m, m.loadSummary()
			}

		case key.Matches(msg, keys.Refresh):
			if m.view == SummaryView {
				return m, m.loadSummary()
			}
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.view != SummaryView {
		return
	}
	m.tagCursor += delta
	if m.tagCursor < 0 {
		m.tagCursor = 0
	}
	if m.tagCursor >= len(m.summary.Tags) {
		m.tagCursor = len(m.summary.Tags) - 1
	}
	if m.tagCursor < 0 {
		m.tagCursor = 0
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case SummaryView:
		content = m.renderSummaryView()
	case ConfirmView:
		content = m.renderConfirmView()
	case ResultView:
		content = m.renderResultView()
	}

	return appStyle.Render(content)
}

func (m *Model) renderSummaryView() string {
	var b strings.Builder

	// Title
	title := titleStyle.Render(" 🏷  reltag ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("  Loading repository..."))
		b.WriteString("\n")
	} else {
		tagState := dimStyle.Render("(not tagged)")
		if m.summary.TagExists {
			tagState = successBadge.Render("(tagged)")
		}

		b.WriteString(normalStyle.Render(fmt.Sprintf("  Repo:     %s", m.summary.RepoPath)))
		b.WriteString("\n")
		b.WriteString(normalStyle.Render(fmt.Sprintf("  Manifest: %s", m.summary.ManifestPath)))
		b.WriteString("\n")
		b.WriteString(normalStyle.Render(fmt.Sprintf("  Version:  %s", m.summary.Version)))
		b.WriteString("\n")
		b.WriteString(normalStyle.Render(fmt.Sprintf("  Tag:      %s ", m.summary.TagName)))
		b.WriteString(tagState)
		b.WriteString("\n")
		b.WriteString(normalStyle.Render(fmt.Sprintf("  Head:     %s", shortHash(m.summary.Head))))
		b.WriteString("\n")
		if m.summary.Remote != "" {
			b.WriteString(normalStyle.Render(fmt.Sprintf("  Remote:   %s", truncate(m.summary.Remote, 50))))
			b.WriteString("\n")
		}
	}

	// Tag list
	b.WriteString("\n")
	header := fmt.Sprintf("  %-28s %s", "TAG", "RELEASE")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")

	visibleHeight := m.height - 16
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	start := 0
	if m.tagCursor >= visibleHeight {
		start = m.tagCursor - visibleHeight + 1
	}

	if len(m.summary.Tags) == 0 {
		b.WriteString(dimStyle.Render("  No tags yet"))
		b.WriteString("\n")
	}

	for i := start; i < len(m.summary.Tags) && i < start+visibleHeight; i++ {
		tag := m.summary.Tags[i]
		cursor := "  "
		style := normalStyle
		if i == m.tagCursor {
			cursor = "▸ "
			style = selectedStyle
		}

		marker := "-"
		if tag.IsRelease {
			marker = releaseStyle.Render("✓")
		}

		line := fmt.Sprintf("%s%-28s %s", cursor, truncate(tag.Name, 28), marker)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	// Pad to fixed height
	for i := len(m.summary.Tags); i < visibleHeight; i++ {
		b.WriteString("\n")
	}

	// Status
	b.WriteString("\n")
	if m.statusMsg != "" {
		if m.statusErr {
			b.WriteString(errorBadge.Render(m.statusMsg))
		} else {
			b.WriteString(successBadge.Render(m.statusMsg))
		}
	}
	b.WriteString("\n")

	// Help
	help := "[↑/↓] navigate  [t] tag release  [r] refresh  [q] quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) renderConfirmView() string {
	var b strings.Builder

	title := titleStyle.Render(" 🏷  Create release tag ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(normalStyle.Render(fmt.Sprintf("  Tag %s at %s?", m.summary.TagName, shortHash(m.summary.Head))))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Version %s from %s", m.summary.Version, m.summary.ManifestPath)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  All tags will be pushed to the remote afterwards."))
	b.WriteString("\n\n")

	if m.working {
		b.WriteString(successBadge.Render("Tagging..."))
		b.WriteString("\n")
	}

	help := "[enter] confirm  [esc] cancel  [q] quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) renderResultView() string {
	var b strings.Builder

	title := titleStyle.Render(" 🏷  Result ")
	b.WriteString(title)
	b.WriteString("\n\n")

	switch {
	case m.result.Error != nil:
		b.WriteString(errorBadge.Render(fmt.Sprintf("✗ Tagging failed: %v", m.result.Error)))
	case m.result.Created && m.result.Pushed:
		b.WriteString(successBadge.Render(fmt.Sprintf("✓ Created and pushed %s", m.result.TagName)))
	case m.result.Created:
		b.WriteString(successBadge.Render(fmt.Sprintf("✓ Created %s", m.result.TagName)))
	default:
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s already exists", m.result.TagName)))
	}
	b.WriteString("\n\n")

	help := "[esc] back  [q] quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// Run starts the TUI for the given repository
func Run(svc ports.TUIService, repoPath string) error {
	m := NewModel(svc, repoPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Helper functions
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	if hash == "" {
		return "-"
	}
	return hash
}
