package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDetail   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Entry is one selectable preset.
type Entry struct {
	Kind, Name string
	Config     *config.Config
}

func (e Entry) Title() string { return e.Kind + "/" + e.Name }

func (e Entry) Detail() string {
	c := e.Config
	return fmt.Sprintf("%d nodes  θ=%.1f  charge=%.0f", c.Graph.Nodes, c.Params.Theta, c.Params.Charge)
}

func PresetEntries() []Entry {
	var out []Entry
	for _, kind := range config.ListKinds() {
		for _, name := range config.ListPresets(kind) {
			out = append(out, Entry{Kind: kind, Name: name, Config: config.GetPreset(kind, name)})
		}
	}
	return out
}

// Menu lists presets and opens the live view for the chosen one; esc
// returns to the list.
type Menu struct {
	entries  []Entry
	cursor   int
	registry *graph.Registry
	logger   *log.Logger

	live   *Model
	err    error
	width  int
	height int
}

func NewMenu(entries []Entry, logger *log.Logger) Menu {
	if logger == nil {
		logger = log.Default()
	}
	return Menu{entries: entries, registry: graph.NewRegistry(), logger: logger}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter":
			return m.start()
		}
	}
	return m, nil
}

func (m Menu) start() (Menu, tea.Cmd) {
	if len(m.entries) == 0 {
		return m, nil
	}
	entry := m.entries[m.cursor]
	g, err := m.registry.Generate(entry.Config.Graph)
	if err != nil {
		m.err = err
		return m, nil
	}
	e, err := layout.New(entry.Config.Params, layout.WithLogger(m.logger))
	if err != nil {
		m.err = err
		return m, nil
	}
	m.logger.Debug("starting live view", "preset", entry.Title(), "nodes", g.Len(), "edges", g.EdgeCount())

	live := NewModel(entry.Title(), e, g)
	m.live, m.err = &live, nil
	return m, live.Init()
}

func (m Menu) Selected() Entry { return m.entries[m.cursor] }

func (m Menu) InLive() bool { return m.live != nil }

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View() + "\n" + menuSub.Render("  esc back to presets")
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("FORCEGRAPH") + "\n    " +
		menuSub.Render("barnes-hut graph layout") + "\n    " +
		menuSub.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"),
				menuActive.Render(fmt.Sprintf("%-18s", e.Title())), menuDetail.Render(e.Detail())))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuInactive.Render(fmt.Sprintf("%-18s", e.Title())),
				menuInactive.Render(e.Detail())))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuInactive.Render(" navigate  ") +
		menuKey.Render("enter") + menuInactive.Render(" open  ") +
		menuKey.Render("q") + menuInactive.Render(" quit") + "\n")
	return b.String()
}

func RunMenu(logger *log.Logger) error {
	_, err := tea.NewProgram(NewMenu(PresetEntries(), logger), tea.WithAltScreen()).Run()
	return err
}
