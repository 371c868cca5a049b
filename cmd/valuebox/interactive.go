package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/valuebox/boundary"
	"github.com/wippyai/valuebox/handle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Release key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Release, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Release, k.Refresh, k.Filter},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Release: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "release")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter by type")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// inspectorModel lists the handles a guest left alive and lets the user
// release them one by one.
type inspectorModel struct {
	err       error
	b         *boundary.Boundary
	title     string
	status    string
	handles   []handle.Info
	filter    textinput.Model
	help      help.Model
	selected  int
	filtering bool
}

func newInspectorModel(b *boundary.Boundary, title string) *inspectorModel {
	ti := textinput.New()
	ti.Prompt = "type: "
	ti.Placeholder = "buffer.Buffer[uint8]"
	ti.Width = 40

	m := &inspectorModel{
		b:      b,
		title:  title,
		filter: ti,
		help:   help.New(),
	}
	m.refresh()
	return m
}

func (m *inspectorModel) refresh() {
	query := strings.TrimSpace(m.filter.Value())
	m.handles = m.handles[:0]
	for _, info := range m.b.Live() {
		if query == "" || strings.Contains(info.TypeName, query) {
			m.handles = append(m.handles, info)
		}
	}
	if m.selected >= len(m.handles) {
		m.selected = max(len(m.handles)-1, 0)
	}
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filter.Blur()
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.refresh()
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.selected < len(m.handles)-1 {
			m.selected++
		}

	case key.Matches(keyMsg, keys.Release):
		if len(m.handles) == 0 {
			return m, nil
		}
		info := m.handles[m.selected]
		if m.b.Release(uint64(info.Address)) {
			m.status = fmt.Sprintf("released %#x (%s)", uint64(info.Address), info.TypeName)
			m.err = nil
		} else {
			m.err = fmt.Errorf("release %#x failed", uint64(info.Address))
		}
		m.refresh()

	case key.Matches(keyMsg, keys.Refresh):
		m.refresh()
		m.status = ""

	case key.Matches(keyMsg, keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(keyMsg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Live handles"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.handles) == 0 {
		b.WriteString(emptyStyle.Render("No live handles."))
		b.WriteString("\n")
	}
	for i, info := range m.handles {
		line := fmt.Sprintf("%#016x  %s", uint64(info.Address), typeStyle.Render(info.TypeName))
		if !info.Populated {
			line += emptyStyle.Render("  (empty)")
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func runInspector(b *boundary.Boundary, title string) error {
	p := tea.NewProgram(newInspectorModel(b, title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
