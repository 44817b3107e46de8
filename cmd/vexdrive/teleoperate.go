package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/vexdrive/pkg/competition"
	"github.com/gwillem/vexdrive/pkg/display"
	"github.com/gwillem/vexdrive/pkg/program"
	"github.com/gwillem/vexdrive/pkg/robot"
	"github.com/gwillem/vexdrive/pkg/teleop"
)

type TeleoperateCommand struct {
	Config string `long:"config" default:"vexdrive.json" description:"Drive configuration file"`
	Bench  bool   `long:"bench" description:"Drive the Feetech servo bench instead of simulated motors"`
	Field  bool   `long:"field" description:"Start disabled, as if connected to field control"`
	Step   int    `long:"step" default:"32" description:"Stick change per key press"`
}

const (
	headerHeight = 3  // title + sticks + blank line
	legendHeight = 2  // legend row + blank
	footerHeight = 17 // LCD and log boxes
	maxLogs      = 5  // number of log messages to show
	borderSize   = 2  // chart border
)

// Motor colors - distinct colors for each motor
var motorColors = map[robot.MotorName]string{
	robot.LeftFront:   "196", // red
	robot.LeftMiddle:  "208", // orange
	robot.LeftRear:    "226", // yellow
	robot.RightFront:  "46",  // green
	robot.RightMiddle: "51",  // cyan
	robot.RightRear:   "201", // magenta
}

var lcdKeys = map[string]uint8{
	"1": display.BtnLeft,
	"2": display.BtnCenter,
	"3": display.BtnRight,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lcdStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("34")).Foreground(lipgloss.Color("120"))
	modeStyles  = map[competition.Mode]lipgloss.Style{
		competition.Disabled:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		competition.Autonomous: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		competition.OpControl:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	}
)

type teleopModel struct {
	rt       *competition.Runtime
	ctrl     *teleop.Controller
	gamepad  *robot.VirtualGamepad
	lcd      *display.LCD
	step     int
	chart    *streamlinechart.Model
	width    int      // terminal width
	height   int      // terminal height
	logs     []string // last N log messages
	quitting bool
	last     teleop.Commands // previous commands, to detect change
}

func (m *teleopModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// hasChanged reports whether any motor command differs from the last state
func (m *teleopModel) hasChanged(cmds teleop.Commands) bool {
	if m.last == nil {
		return true
	}
	for name, cmd := range cmds {
		if prev, ok := m.last[name]; !ok || cmd != prev {
			return true
		}
	}
	return false
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *teleopModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *teleopModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialTeleopModel(rt *competition.Runtime, prog *program.Program, gamepad *robot.VirtualGamepad, lcd *display.LCD, step int) teleopModel {
	// Unclamped commands can reach twice the motor range.
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(-2*robot.MaxPower, 2*robot.MaxPower),
	)

	// Set up data set styles for each motor
	for _, name := range robot.AllMotors() {
		color := motorColors[name]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return teleopModel{
		rt:      rt,
		ctrl:    prog.Teleop(),
		gamepad: gamepad,
		lcd:     lcd,
		step:    step,
		chart:   &chart,
	}
}

func (m teleopModel) Init() tea.Cmd {
	// Start listening for state and log updates
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m teleopModel) setMode(mode competition.Mode) teleopModel {
	if err := m.rt.SetMode(mode); err != nil {
		m.addLog(fmt.Sprintf("mode %s: %v", mode, err))
		return m
	}
	m.addLog("Mode: " + mode.String())
	return m
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "w", "up":
			m.gamepad.Nudge(robot.LeftY, m.step)
		case "s", "down":
			m.gamepad.Nudge(robot.LeftY, -m.step)
		case "d", "right":
			m.gamepad.Nudge(robot.RightX, m.step)
		case "a", "left":
			m.gamepad.Nudge(robot.RightX, -m.step)
		case " ":
			m.gamepad.Center()
		case "o":
			m = m.setMode(competition.OpControl)
		case "u":
			m = m.setMode(competition.Autonomous)
		case "x":
			m = m.setMode(competition.Disabled)
		}
		if btn, ok := lcdKeys[key]; ok {
			if m.lcd.ReadButtons()&btn != 0 {
				m.lcd.Release(btn)
			} else {
				m.lcd.Press(btn)
			}
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		if state.Commands != nil && m.hasChanged(state.Commands) {
			for name, cmd := range state.Commands {
				m.chart.PushDataSet(string(name), float64(cmd))
			}
			m.chart.DrawAll()
			m.last = state.Commands
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Driver station closed.\n"
	}

	var sb strings.Builder

	// Header
	mode := m.rt.Mode()
	sb.WriteString(titleStyle.Render("vexdrive"))
	sb.WriteString(fmt.Sprintf(" - %v cycle  ", m.ctrl.Period()))
	sb.WriteString(modeStyles[mode].Render(strings.ToUpper(mode.String())))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("forward %4d   turn %4d\n\n",
		m.gamepad.Analog(robot.LeftY), m.gamepad.Analog(robot.RightX)))

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend(m.last))
	sb.WriteString("\n")

	// LCD
	sb.WriteString(lcdStyle.Render(renderLCD(m.lcd)))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20)).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("w/s/a/d sticks, space center, 1/2/3 LCD buttons, o/u/x mode, q quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend(cmds teleop.Commands) string {
	var items []string
	for _, name := range robot.AllMotors() {
		color := motorColors[name]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + fmt.Sprintf(" %s %4d", name, cmds[name])
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func renderLCD(lcd *display.LCD) string {
	lines := lcd.Snapshot()
	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = fmt.Sprintf("%-40s", line)
	}
	return strings.Join(rows, "\n")
}

func openBackend(cfg *robot.Config, bench bool) (robot.Backend, error) {
	if !bench {
		return robot.NewSimBackend(), nil
	}
	if cfg.Bench == nil {
		return nil, fmt.Errorf("no bench configured")
	}
	b, err := robot.NewBench(*cfg.Bench, cfg.Drive)
	if err != nil {
		return nil, err
	}
	if err := b.Enable(context.Background()); err != nil {
		b.Close()
		return nil, fmt.Errorf("enable bench: %w", err)
	}
	return b, nil
}

func (c *TeleoperateCommand) Execute(args []string) error {
	// Load config
	cfg, found, err := robot.LoadOrDefault(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if found {
		fmt.Printf("Loaded configuration from %s\n", c.Config)
	} else {
		fmt.Println("No configuration found, using default wiring.")
	}

	if c.Bench && (cfg.Bench == nil || !cfg.Bench.IsCalibrated()) {
		fmt.Fprintln(os.Stderr, "Bench not configured. Run 'vexdrive setup' first.")
		os.Exit(1)
	}

	logger := newLogger(opts.LogFile, opts.Verbose)
	defer logger.Sync()
	sugar := logger.Sugar()

	backend, err := openBackend(cfg, c.Bench)
	if err != nil {
		return fmt.Errorf("open motors: %w", err)
	}

	lcd := display.New()
	gamepad := &robot.VirtualGamepad{}

	prog, err := program.New(program.Config{
		Drive:   cfg.Drive,
		Backend: backend,
		Gamepad: gamepad,
		LCD:     lcd,
		Logger:  sugar,
	})
	if err != nil {
		backend.Close()
		return fmt.Errorf("create program: %w", err)
	}
	defer func() {
		if err := prog.Close(); err != nil {
			sugar.Warnw("close program", "error", err)
		}
	}()

	rt := competition.NewRuntime(prog, competition.Config{
		FieldConnected: c.Field,
		Halt:           prog.Halt,
		Logger:         sugar.Named("competition"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}
	defer rt.Stop()

	// Run TUI
	p := tea.NewProgram(initialTeleopModel(rt, prog, gamepad, lcd, c.Step), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run driver station: %w", err)
	}

	return nil
}
