package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/control"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/physics"
	"github.com/san-kum/shipsim/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 600
	frameRate       = time.Second / 30
	throttleStep    = 0.05
	targetStep      = 5.0
	gravityStep     = 0.5
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	Title      string
	Ship       *craft.Spaceship
	Integrator dynamo.Integrator
	// Controller flies the craft. When nil the throttle is manual and
	// driven by the keyboard.
	Controller dynamo.Controller
	Env        physics.Environment
	Initial    dynamo.State
	Dt         float64
	// Duration stops the flight; zero flies until quit.
	Duration  float64
	Theme     string
	Observers []dynamo.Observer
}

// Model flies one craft in real time, one simulation step per frame.
type Model struct {
	opts      Options
	simulator *sim.Simulator
	manual    *control.Manual
	tunable   control.Tunable
	env       physics.Environment
	wire      *Wireframe
	camera    *Camera
	canvas    *Canvas
	theme     Theme
	styles    Styles

	x        dynamo.State
	step     int
	throttle float64
	altitude []float64
	speed    []float64

	running  bool
	done     bool
	err      error
	showHelp bool
}

func NewModel(opts Options) Model {
	ctrl := opts.Controller
	var manual *control.Manual
	if ctrl == nil {
		manual = control.NewManual(0)
		ctrl = manual
	} else if m, ok := ctrl.(*control.Manual); ok {
		manual = m
	}
	tunable, _ := ctrl.(control.Tunable)

	s := sim.New(opts.Integrator, ctrl, opts.Env)
	for _, o := range opts.Observers {
		s.AddObserver(o)
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		opts:      opts,
		simulator: s,
		manual:    manual,
		tunable:   tunable,
		env:       opts.Env,
		wire:      ShipWireframe(opts.Ship),
		camera:    NewCamera(),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		theme:     theme,
		styles:    NewStyles(theme),
		running:   true,
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "up", "k":
		m.adjustThrottle(throttleStep)
	case "down", "j":
		m.adjustThrottle(-throttleStep)
	case "t":
		m.theme = m.theme.Next()
		m.styles = NewStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "z":
		m.camera.RotateZ(0.1)
	case "Z":
		m.camera.RotateZ(-0.1)
	case "[":
		m.adjustTarget(-targetStep)
	case "]":
		m.adjustTarget(targetStep)
	case "g":
		m.adjustGravity(gravityStep)
	case "G":
		m.adjustGravity(-gravityStep)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && m.manual != nil {
			level := float64(key[0]-'0') / 9
			m.manual.Set(level)
		}
	}
	return m, nil
}

func (m *Model) adjustThrottle(delta float64) {
	if m.manual != nil {
		m.manual.Adjust(delta)
	}
}

// adjustTarget moves the altitude target of a tunable controller.
func (m *Model) adjustTarget(delta float64) {
	if m.tunable == nil {
		return
	}
	if target, ok := m.tunable.GetParams()["Target"]; ok {
		m.tunable.SetParam("Target", max(0, target+delta))
	}
}

// adjustGravity changes the downward gravity magnitude for the next steps.
func (m *Model) adjustGravity(delta float64) {
	g := max(0, m.env.GetParams()["gravity"]+delta)
	if err := m.env.SetParam("gravity", g); err != nil {
		return
	}
	m.simulator.SetEnvironment(m.env)
}

func (m *Model) reset() {
	m.env = m.opts.Env
	m.simulator.SetEnvironment(m.env)
	m.x = m.opts.Initial
	if m.env.Ground && m.x.Altitude() < m.env.GroundAltitude {
		m.x.Position[2] = m.env.GroundAltitude
	}
	if m.x.Orientation == (mgl64.Quat{}) {
		m.x.Orientation = mgl64.QuatIdent()
	}
	m.step = 0
	m.throttle = 0
	m.altitude = m.altitude[:0]
	m.speed = m.speed[:0]
	m.done = false
	m.err = nil
	if m.manual != nil {
		m.manual.Set(0)
	}
	m.record()
}

func (m *Model) time() float64 { return float64(m.step) * m.opts.Dt }

// advance runs one simulation step.
func (m *Model) advance() {
	if m.opts.Duration > 0 && m.time() >= m.opts.Duration-1e-9 {
		m.done = true
		return
	}

	next, u, err := m.simulator.Step(m.opts.Ship, m.x, m.time(), m.opts.Dt)
	if err == nil && !next.IsValid() {
		err = dynamo.ErrInvalidState
	}
	if err != nil {
		m.err = &dynamo.SimulationError{Step: m.step, Time: m.time(), Wrapped: err}
		m.done = true
		return
	}

	m.x, m.throttle = next, u
	m.step++
	m.record()

	snap := dynamo.NewSnapshot(m.step, m.time(), m.x, u)
	for _, o := range m.opts.Observers {
		o.OnStep(snap)
	}
}

func (m *Model) record() {
	m.altitude = appendCapped(m.altitude, m.x.Altitude())
	m.speed = appendCapped(m.speed, m.x.Airspeed())
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// Snapshot reports the current flight state.
func (m Model) Snapshot() dynamo.Snapshot {
	return dynamo.NewSnapshot(m.step, m.time(), m.x, m.throttle)
}

func (m Model) Err() error { return m.err }

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.SparkLow.Render("ABORTED")
	case m.done:
		return m.styles.Landed.Render("FINISHED")
	case !m.running:
		return m.styles.Paused.Render("PAUSED")
	case physics.OnGround(m.x, m.env):
		return m.styles.Landed.Render("ON GROUND")
	}
	return m.styles.Running.Render("FLYING")
}

func (m Model) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, m.wire.Transform(m.x.Orientation, mgl64.Vec3{}), m.camera)
	if v := m.x.Velocity; v.Len() > 0 {
		dir := v.Normalize().Mul(2)
		Render3D(m.canvas, &Wireframe{Edges: []Edge{{Start: mgl64.Vec3{}, End: dir}}}, m.camera)
	}
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	snap := m.Snapshot()

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "shipsim"
	}
	s.WriteString(st.Header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.altitude) > 1 {
		s.WriteString(st.Graph.Render(Plot(m.altitude, "Altitude (m)", 30, 5)) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1f s", snap.Time))
	row("Altitude", fmt.Sprintf("%.1f m", snap.Altitude))
	row("Speed", fmt.Sprintf("%.1f m/s", snap.Airspeed))
	row("Pitch", fmt.Sprintf("%.1f°", snap.Pitch))
	row("Mass", fmt.Sprintf("%.0f kg", m.opts.Ship.TotalMass()))
	row("Gravity", fmt.Sprintf("%.2f m/s²", -m.env.Gravity[2]))
	row("T/W", fmt.Sprintf("%.2f", m.opts.Ship.ThrustToWeight(-m.env.Gravity[2])))
	if m.tunable != nil {
		if target, ok := m.tunable.GetParams()["Target"]; ok {
			row("Target", fmt.Sprintf("%.0f m", target))
		}
	}

	throttle := snap.Throttle
	if m.manual != nil {
		throttle = m.manual.Get()
	}
	s.WriteString(st.Label.Render("Throttle") + st.ProgressBar(throttle, 20) + fmt.Sprintf(" %3.0f%%", throttle*100) + "\n")
	s.WriteString(st.Label.Render("Speed") + Sparkline(m.speed, 30) + "\n")
	if m.err != nil {
		s.WriteString("\n" + st.SparkLow.Render(m.err.Error()) + "\n")
	}

	help := "SP:Pause R:Reset Q:Quit T:Theme g/G:Gravity ?:Help"
	if m.manual != nil {
		help = "↑↓/0-9:Throttle " + help
	}
	if m.tunable != nil {
		help = "[/]:Target " + help
	}
	s.WriteString(st.Help.Render(help))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Canvas.Render(m.canvas.String()),
		st.Panel.Render(s.String()),
	)
	if m.showHelp {
		return helpText + "\n" + body
	}
	return body
}

const helpText = `
  Space    Pause/Resume
  R        Reset flight
  Up/K     Throttle +5%
  Down/J   Throttle -5%
  0-9      Throttle in 10% steps
  [/]      Hold target -/+5 m
  g/G      Gravity +/-0.5 m/s²
  x/y/z    Rotate camera (shift reverses)
  +/-      Zoom
  T        Cycle themes
  ?        Toggle this help
  Q        Quit
`

// Run flies the craft interactively until the user quits.
func Run(opts Options) error {
	final, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
