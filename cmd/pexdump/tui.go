package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling, adapted from the Monke REPL's palette: a purple title bar, a
// highlighted cursor line, and a muted style for everything else.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF79C6"))

	argStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

const (
	headerLines = 4 // title + blank + section line + blank
	footerLines = 2 // blank + help line
)

// model is the pexdump TUI's state: the decoded sections it is browsing, the
// cursor position within them, and a viewport scrolling the current
// section's (potentially long) instruction listing.
type model struct {
	path     string
	sections [][]instr
	section  int
	cursor   int
	noColor  bool

	viewport viewport.Model
	ready    bool
}

func initialModel(path string, sections [][]instr, noColor bool) model {
	return model{path: path, sections: sections, noColor: noColor}
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.noColor {
		return text
	}
	return style.Render(text)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		vpHeight := msg.Height - headerLines - footerLines
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if len(m.sections) > 0 && m.cursor < len(m.sections[m.section])-1 {
				m.cursor++
			}
		case tea.KeyLeft:
			if m.section > 0 {
				m.section--
				m.cursor = 0
			}
		case tea.KeyRight:
			if m.section < len(m.sections)-1 {
				m.section++
				m.cursor = 0
			}
		}
		if m.ready {
			m.viewport.SetContent(m.renderBody())
			m.viewport.YOffset = clampOffset(m.cursor, m.viewport.YOffset, m.viewport.Height)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// clampOffset nudges a viewport's scroll offset just enough to keep line
// cursor visible within a window of the given height.
func clampOffset(cursor, offset, height int) int {
	if height <= 0 {
		return offset
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, fmt.Sprintf(" pexdump: %s ", m.path)))
	s.WriteString("\n\n")

	if len(m.sections) == 0 {
		s.WriteString("(empty file)\n")
		return s.String()
	}

	s.WriteString(m.applyStyle(sectionStyle, fmt.Sprintf("section %d/%d, %d instructions",
		m.section, len(m.sections)-1, len(m.sections[m.section]))))
	s.WriteString("\n\n")

	if m.ready {
		s.WriteString(m.viewport.View())
	} else {
		s.WriteString(m.renderBody())
	}

	s.WriteString("\n")
	s.WriteString(m.applyStyle(helpStyle, "↑/↓ instruction · ←/→ section · esc/ctrl+c quit"))
	s.WriteString("\n")
	return s.String()
}

// renderBody lays out the current section's instructions as the viewport's
// scrollable content, one line per instruction with the cursor marked.
func (m model) renderBody() string {
	var s strings.Builder
	for addr, in := range m.sections[m.section] {
		marker := "  "
		if addr == m.cursor {
			marker = m.applyStyle(cursorStyle, "> ")
		}
		s.WriteString(marker)
		s.WriteString(m.applyStyle(addrStyle, fmt.Sprintf("%04d ", addr)))
		s.WriteString(m.highlightInstr(in))
		if addr < len(m.sections[m.section])-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

// highlightInstr splits an instruction's rendering into its mnemonic and
// argument text so each can take its own style.
func (m model) highlightInstr(in instr) string {
	mnemonic := m.applyStyle(opStyle, in.Op.String())
	if in.Text == "" {
		return mnemonic
	}
	return mnemonic + " " + m.applyStyle(argStyle, in.Text)
}
