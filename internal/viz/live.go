package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/vecmath"
)

const (
	canvasWidth     = 72
	canvasHeight    = 24
	historyCapacity = 300
	frameInterval   = time.Second / 30
	rotateStep      = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a layout once per frame and draws it. Pausing only stops
// the stepping; the engine itself has no notion of it.
type Model struct {
	title   string
	engine  *layout.Engine
	graph   layout.Graph
	initial []vecmath.Vec3

	canvas  *Canvas
	camera  *Camera
	theme   int
	running bool
	autoFit bool
	help    bool

	steps  int
	last   layout.Stats
	energy []float64
}

func NewModel(title string, e *layout.Engine, g layout.Graph) Model {
	bodies := g.Bodies()
	initial := make([]vecmath.Vec3, len(bodies))
	for i, b := range bodies {
		if b != nil {
			initial[i] = b.Position
		}
	}
	m := Model{
		title:   title,
		engine:  e,
		graph:   g,
		initial: initial,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(),
		running: true,
		autoFit: true,
		energy:  make([]float64, 0, historyCapacity),
	}
	m.camera.Fit(layout.BoundsOf(bodies))
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.Step()
			}
		case "r":
			m.Reset()
		case "f":
			m.autoFit = !m.autoFit
		case "left", "h":
			m.camera.Rotate(-rotateStep, 0)
		case "right", "l":
			m.camera.Rotate(rotateStep, 0)
		case "up", "k":
			m.camera.Rotate(0, rotateStep)
		case "down", "j":
			m.camera.Rotate(0, -rotateStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		if m.running {
			m.Step()
		}
		return m, tick()
	}
	return m, nil
}

// Step advances the layout by one frame.
func (m *Model) Step() {
	m.last = m.engine.StepGraph(m.graph)
	m.steps++
	m.energy = append(m.energy, m.last.TotalKineticEnergy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	if m.autoFit {
		m.camera.Fit(m.last.Bounds)
	}
}

// Reset puts every body back where it started, at rest.
func (m *Model) Reset() {
	for i, b := range m.graph.Bodies() {
		if b == nil || i >= len(m.initial) {
			continue
		}
		b.Position = m.initial[i]
		b.Velocity = vecmath.Vec3{}
		b.Acceleration = vecmath.Vec3{}
		b.ResetForce()
	}
	m.engine.Reset()
	m.steps = 0
	m.last = layout.Stats{}
	m.energy = m.energy[:0]
	m.camera.Fit(layout.BoundsOf(m.graph.Bodies()))
}

func (m Model) Running() bool { return m.running }

func (m Model) Steps() int { return m.steps }

func (m Model) Stats() layout.Stats { return m.last }

func (m Model) View() string {
	st := Themes[m.theme].styles()

	m.canvas.Clear()
	DrawGraph(m.canvas, m.camera, m.graph.Bodies(), m.graph.Springs())
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.last.Stable {
		status += " " + st.stable.Render("STABLE")
	}
	s.WriteString(status + "\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	p := m.engine.Params()
	row("Step", fmt.Sprintf("%d", m.steps))
	row("Energy", fmt.Sprintf("%.3f", m.last.TotalKineticEnergy))
	row("Settled", ProgressBar(settled(m.last.TotalKineticEnergy, p.StableEnergyThreshold), 16))
	row("Bodies", fmt.Sprintf("%d", len(m.graph.Bodies())))
	row("Springs", fmt.Sprintf("%d", len(m.graph.Springs())))
	row("Octree", fmt.Sprintf("%d nodes, depth %d", m.last.TreeNodes, m.last.TreeDepth))
	row("Solver", fmt.Sprintf("%s θ=%.2f", p.Solver, p.Theta))
	row("Frame", m.last.Elapsed.Round(time.Microsecond).String())
	if m.last.Degenerate > 0 || m.last.Merged > 0 {
		row("Recovered", fmt.Sprintf("%d clamped, %d merged", m.last.Degenerate, m.last.Merged))
	}

	if m.help {
		s.WriteString(st.help.Render("space pause  n step  r reset\n←→↑↓ rotate  +/- zoom  f fit\nt theme  ? help  q quit"))
	} else {
		s.WriteString(st.help.Render("? help  q quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}

// settled maps energy onto [0, 1], reaching 1 at the stability threshold.
func settled(energy, threshold float64) float64 {
	if energy <= threshold || threshold <= 0 {
		return 1
	}
	return math.Max(0, 1-math.Log10(energy/threshold)/4)
}

func RunLive(title string, e *layout.Engine, g layout.Graph) error {
	_, err := tea.NewProgram(NewModel(title, e, g), tea.WithAltScreen()).Run()
	return err
}
