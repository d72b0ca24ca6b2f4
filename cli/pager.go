package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(2)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			PaddingLeft(2)
)

// pagerModel shows rendered output and narrows it down to the lines that
// contain a filter string, e.g. every link to one host.
type pagerModel struct {
	viewport viewport.Model
	ready    bool

	lines []string
	// plain holds lines without ANSI escapes, lowercased, for matching
	plain []string

	filter    textinput.Model
	filtering bool
	shown     int
}

// NewPager creates a new pager model with the given content
func NewPager(content string) *pagerModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	plain := make([]string, len(lines))
	for i, l := range lines {
		plain[i] = strings.ToLower(ansi.Strip(l))
	}

	return &pagerModel{
		lines:  lines,
		plain:  plain,
		filter: ti,
		shown:  len(lines),
	}
}

// Init initializes the pager model
func (m *pagerModel) Init() tea.Cmd {
	return nil
}

// visible returns the lines matching the current filter
func (m *pagerModel) visible() []string {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		return m.lines
	}
	var out []string
	for i, p := range m.plain {
		if strings.Contains(p, q) {
			out = append(out, m.lines[i])
		}
	}
	return out
}

func (m *pagerModel) refresh() {
	lines := m.visible()
	m.shown = len(lines)
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoTop()
}

// Update handles user input and updates the model state
func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEscape:
				m.filtering = false
				m.filter.Reset()
				m.filter.Blur()
				m.refresh()
				return m, nil
			case tea.KeyEnter:
				m.filtering = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.filter.Value() != "" {
				m.filter.Reset()
				m.refresh()
			}
			return m, nil
		case "/":
			m.filtering = true
			return m, m.filter.Focus()
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
			m.refresh()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the current state of the model
func (m *pagerModel) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	var status string
	switch {
	case m.filtering:
		status = "  " + m.filter.View()
	case m.filter.Value() != "":
		status = filterStyle.Render(fmt.Sprintf("filter %q: %d of %d lines • esc clear • / edit • q quit",
			m.filter.Value(), m.shown, len(m.lines)))
	default:
		status = helpStyle.Render("↑/k up • ↓/j down • space/f forward • b back • g/G top/bottom • / filter • q quit")
	}
	return m.viewport.View() + "\n" + status
}

// RunPager starts the pager program with the given content
func RunPager(content string) error {
	p := tea.NewProgram(
		NewPager(content),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
