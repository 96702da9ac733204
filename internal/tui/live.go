package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/LaboratoryZero/matrixrain/internal/config"
	"github.com/LaboratoryZero/matrixrain/internal/rain"
	"github.com/LaboratoryZero/matrixrain/internal/stats"
)

const (
	sidebarWidth = 30
	frameRate    = 30
	historyLen   = 120
)

// phaseStep is one stage of a scripted transition played by the live
// view.
type phaseStep struct {
	kind rain.PhaseKind
	dur  float64
}

var glitchScript = []phaseStep{
	{rain.PhaseCorruption, 2.0},
	{rain.PhaseError, 2.5},
	{rain.PhaseReset, 2.0},
}

var drainScript = []phaseStep{
	{rain.PhaseCompletion, 6.0},
}

type Model struct {
	sim     *rain.Simulator
	surface *cellSurface
	active  *stats.ActiveColumns
	speed   *stats.MeanSpeed

	script  []phaseStep
	stepIdx int
	elapsed float64

	presets []string
	preset  string

	paused    bool
	history   []float64
	lastFrame time.Time
	fps       float64
	width     int
	height    int
	ready     bool
}

func NewModel(settings rain.Settings, seed int64) (*Model, error) {
	// One terminal cell per grid cell.
	settings.GlyphSize = 1
	sim, err := rain.New(settings, seed)
	if err != nil {
		return nil, err
	}
	presets := config.ListPresets()
	sort.Strings(presets)
	return &Model{
		sim:     sim,
		surface: newCellSurface(0, 0),
		active:  stats.NewActiveColumns(),
		speed:   stats.NewMeanSpeed(),
		presets: presets,
		preset:  "classic",
		history: make([]float64, 0, historyLen),
	}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cols := m.width - sidebarWidth - 3
		rows := m.height - 3
		if cols > 0 && rows > 0 {
			m.sim.Resize(cols, rows)
			m.surface.resize(cols, rows)
			m.ready = true
		}
		return m, nil
	case tickMsg:
		if !m.paused && m.ready {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	now := time.Now()
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 1.0 / dt
		}
	}
	m.lastFrame = now

	dt := 1.0 / float64(frameRate)
	m.advanceScript(dt)
	m.sim.Update(dt)
	m.sim.Draw(m.surface)

	m.active.Observe(m.sim)
	m.speed.Observe(m.sim)
	m.history = append(m.history, m.active.Last())
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *Model) advanceScript(dt float64) {
	if m.script == nil {
		return
	}
	step := m.script[m.stepIdx]
	m.elapsed += dt
	progress := m.elapsed / step.dur
	if progress >= 1 {
		m.stepIdx++
		m.elapsed = 0
		if m.stepIdx >= len(m.script) {
			// A reset or a full drain leaves a stale field behind.
			if step.kind == rain.PhaseReset || step.kind == rain.PhaseCompletion {
				m.sim.Reset()
			}
			m.script = nil
			m.stepIdx = 0
			m.sim.SetPhase(rain.Phase{})
			return
		}
		step = m.script[m.stepIdx]
		progress = 0
	}
	m.sim.SetPhase(rain.Phase{Kind: step.kind, Progress: progress})
}

func (m *Model) startScript(script []phaseStep) {
	m.script = script
	m.stepIdx = 0
	m.elapsed = 0
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
		m.lastFrame = time.Time{}
	case "r":
		m.script = nil
		m.sim.SetPhase(rain.Phase{})
		m.sim.Reset()
		m.active.Reset()
		m.speed.Reset()
		m.history = m.history[:0]
	case "t":
		m.startScript(glitchScript)
	case "d":
		m.startScript(drainScript)
	case "+", "=":
		m.adjustDensity(0.2)
	case "-", "_":
		m.adjustDensity(-0.2)
	}
	if key >= "1" && key <= "9" {
		idx := int(key[0] - '1')
		if idx < len(m.presets) {
			m.applyPreset(m.presets[idx])
		}
	}
	return m, nil
}

func (m *Model) adjustDensity(delta float64) {
	s := m.sim.Settings()
	s.Density += delta
	if s.Density < rain.MinDensity {
		s.Density = rain.MinDensity
	}
	if s.Density > rain.MaxDensity {
		s.Density = rain.MaxDensity
	}
	_ = m.sim.ApplySettings(s)
}

func (m *Model) applyPreset(name string) {
	p, ok := config.GetPreset(name)
	if !ok {
		return
	}
	cfg := config.DefaultConfig()
	cfg.Rain = p
	s, err := cfg.Settings()
	if err != nil {
		return
	}
	s.GlyphSize = 1
	s.Density = m.sim.Settings().Density
	if m.sim.ApplySettings(s) == nil {
		m.preset = name
	}
}

func (m *Model) View() string {
	if !m.ready {
		return dim.Render("\n  sizing...")
	}

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	phase := m.sim.Phase()
	phaseStr := ""
	if phase.Kind != rain.PhaseNone {
		phaseStr = "  " + yellow.Render(phase.Kind.String())
	}
	header := fmt.Sprintf(" %s %s  %s%s  %s",
		statusIcon, cyan.Render("matrixrain"), statusText, phaseStr,
		dim.Render(fmt.Sprintf("%.0ffps", m.fps)))

	rainLines := m.surface.render()
	sidebar := m.sidebar(len(rainLines))

	var b strings.Builder
	b.WriteString(header + "\n")
	for i, line := range rainLines {
		b.WriteString(" " + line)
		if i < len(sidebar) {
			b.WriteString("  " + sidebar[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(dim.Render(" space pause  t glitch  d drain  1-5 theme  ± density  r reset  q quit"))
	return b.String()
}

func (m *Model) sidebar(height int) []string {
	lines := make([]string, 0, height)
	lines = append(lines, white.Render("theme ")+cyan.Render(m.preset))
	for i, name := range m.presets {
		marker := "  "
		style := dim
		if name == m.preset {
			marker = cyan.Render("▸ ")
			style = white
		}
		lines = append(lines, fmt.Sprintf("%s%d %s", marker, i+1, style.Render(name)))
	}
	lines = append(lines, "")
	lines = append(lines, dim.Render(fmt.Sprintf("density %.1f", m.sim.Settings().Density)))
	lines = append(lines, dim.Render(fmt.Sprintf("columns %.0f", m.active.Last())))
	lines = append(lines, dim.Render(fmt.Sprintf("speed   %.1f rows/s", m.speed.Value())))

	if len(m.history) > 2 {
		lines = append(lines, "")
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(sidebarWidth-8),
			asciigraph.Caption("active columns"),
		)
		lines = append(lines, strings.Split(graph, "\n")...)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

// Run starts the live terminal preview and blocks until quit.
func Run(settings rain.Settings, seed int64) error {
	m, err := NewModel(settings, seed)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
