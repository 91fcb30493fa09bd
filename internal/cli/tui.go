package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/pipeline"
	"github.com/matzehuels/notegraph/pkg/render/canvas"
)

// wheelDelta is the zoom amount for one wheel notch or one +/- key press.
const wheelDelta = 3

// Status bar styles
var (
	barStyle      = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("#3B4252"))
	barAccent     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Background(lipgloss.Color("#3B4252"))
	barWarn       = lipgloss.NewStyle().Foreground(colorYellow).Background(lipgloss.Color("#3B4252"))
	barHintsStyle = lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("#3B4252"))
)

// =============================================================================
// Messages
// =============================================================================

type tickMsg time.Time

// rebuildMsg carries the result of a rebuild triggered by a file change.
type rebuildMsg struct {
	res *pipeline.Result
	err error
}

// =============================================================================
// ViewModel - Interactive graph view
// =============================================================================

// ViewModel is the bubbletea model for the interactive graph view. Each
// braille dot is one screen unit, so a terminal cell covers 2x4 units.
type ViewModel struct {
	ctl    *interact.Controller
	pal    interact.Palette
	params layout.Params
	tick   time.Duration

	canvas *canvas.Canvas
	width  int
	height int

	root     string
	stats    pipeline.Stats
	problems int
	err      error
}

// NewViewModel creates the view for a built and laid out graph.
func NewViewModel(res *pipeline.Result, ctl *interact.Controller, pal interact.Palette, params layout.Params, tick time.Duration) *ViewModel {
	pal.SetDefaults()
	m := &ViewModel{
		ctl:    ctl,
		pal:    pal,
		params: params,
		tick:   tick,
		canvas: canvas.New(0, 0),
	}
	m.setResult(res)
	return m
}

func (m *ViewModel) setResult(res *pipeline.Result) {
	m.root = res.Root
	m.stats = res.Stats
	m.problems = res.Report.Problems()
}

func (m *ViewModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *ViewModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if ev, ok := pointerEvent(msg); ok {
			m.ctl.Handle(ev)
		}
	case tickMsg:
		m.ctl.Tick()
		return m, m.tickCmd()
	case rebuildMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.ctl.Replace(msg.res.Graph, layout.New(msg.res.Graph, m.params))
		m.setResult(msg.res)
	}
	return m, nil
}

func (m *ViewModel) resize(w, h int) {
	m.width, m.height = w, h
	rows := max(h-1, 0)
	m.canvas = canvas.New(w, rows)
	m.ctl.Resize(geom.Rect{W: float64(m.canvas.Width()), H: float64(m.canvas.Height())})
}

func (m *ViewModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "r":
		m.ctl.Viewport().Reset()
	case "+", "=":
		m.ctl.Zoom(wheelDelta)
	case "-", "_":
		m.ctl.Zoom(-wheelDelta)
	case "esc":
		m.ctl.ClearSelection()
	}
	return nil
}

// pointerEvent maps a terminal mouse event to a controller event at the
// centre dot of the cell under the cursor.
func pointerEvent(msg tea.MouseMsg) (interact.PointerEvent, bool) {
	pos := geom.Pt(float64(msg.X*2+1), float64(msg.Y*4+2))
	ev := interact.PointerEvent{Pos: pos, Button: mouseButton(msg.Button)}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Kind, ev.Button, ev.Delta = interact.Scroll, interact.ButtonNone, wheelDelta
		return ev, true
	case tea.MouseButtonWheelDown:
		ev.Kind, ev.Button, ev.Delta = interact.Scroll, interact.ButtonNone, -wheelDelta
		return ev, true
	}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = interact.Press
	case tea.MouseActionRelease:
		ev.Kind = interact.Release
		// X10 reporting does not say which button was released.
		if ev.Button == interact.ButtonNone {
			ev.Button = interact.ButtonLeft
		}
	case tea.MouseActionMotion:
		ev.Kind = interact.Move
	default:
		return ev, false
	}
	return ev, true
}

func mouseButton(b tea.MouseButton) interact.Button {
	switch b {
	case tea.MouseButtonLeft:
		return interact.ButtonLeft
	case tea.MouseButtonRight:
		return interact.ButtonRight
	case tea.MouseButtonMiddle:
		return interact.ButtonMiddle
	}
	return interact.ButtonNone
}

func (m *ViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	m.canvas.Clear()
	m.canvas.Draw(m.ctl.Frame(), m.pal)
	return m.canvas.Render(m.pal.Background) + "\n" + m.statusBar()
}

// statusBar renders the one-line footer, truncated to the terminal width.
func (m *ViewModel) statusBar() string {
	parts := []string{
		barAccent.Render(" " + filepath.Base(m.root) + " "),
		barStyle.Render(fmt.Sprintf(" %d notes  %d links ", m.stats.Nodes, m.stats.Edges)),
	}
	if m.problems > 0 {
		parts = append(parts, barWarn.Render(fmt.Sprintf(" %s %d problems ", iconWarning, m.problems)))
	}
	if i, ok := m.ctl.Active(); ok {
		parts = append(parts, barAccent.Render(" "+m.ctl.Graph().Name(i)+" "))
	}
	if m.err != nil {
		parts = append(parts, barWarn.Render(" rebuild failed "))
	}

	e := m.ctl.Engine()
	state := "settled"
	if !e.Converged() {
		state = fmt.Sprintf("step %d", e.Steps())
	}
	parts = append(parts,
		barStyle.Render(fmt.Sprintf(" zoom %.1fx  %s ", m.ctl.Viewport().Zoom, state)),
		barHintsStyle.Render(" +/- zoom  r reset  esc clear  q quit "),
	)

	bar := lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	if pad := m.width - lipgloss.Width(bar); pad > 0 {
		bar += barStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}
