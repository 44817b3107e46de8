package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/vexdrive/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// STS servo positions span one turn in 4096 steps.
const (
	servoMaxPosition = 4095
	benchHalfRange   = 1024 // ±90 degrees of horn travel
)

type SetupCommand struct {
	Config string `long:"config" default:"vexdrive.json" description:"Drive configuration file"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("vexdrive Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, found, err := robot.LoadOrDefault(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if found {
		fmt.Printf("Editing %s\n\n", c.Config)
	}

	// Step 1: Scale factors
	fmt.Println(subHeaderStyle.Render("━━━ Motor scale factors ━━━"))
	fmt.Println()
	if err := editScales(&cfg.Drive); err != nil {
		return err
	}

	// Step 2: Optional servo bench
	fmt.Println()
	var withBench bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure a Feetech servo bench?").
				Description("Six STS servos that show each motor's commanded power").
				Value(&withBench),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	if withBench {
		bench, err := setupBench()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bench setup failed: %v\n", err)
		} else {
			cfg.Bench = bench
		}
	}

	if err := cfg.Drive.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if err := cfg.SaveTo(c.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Bench != nil {
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Bench check ━━━"))
		if err := checkBench(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Bench check failed: %v\n", err)
		}
	}

	fmt.Println()
	fmt.Println(renderWiring(cfg))
	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", c.Config)
	fmt.Println()
	fmt.Println("Start driving with: " + headerStyle.Render("vexdrive teleoperate"))

	return nil
}

func parseScale(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("enter a number, e.g. 1.0")
	}
	if v <= 0 || v > 2 {
		return 0, errors.New("scale must be in (0, 2]")
	}
	return v, nil
}

func editScales(drive *robot.DriveConfig) error {
	motors := robot.AllMotors()
	values := make([]string, len(motors))
	fields := make([]huh.Field, 0, len(motors)+1)

	for i, name := range motors {
		values[i] = strconv.FormatFloat(drive.Scale(name), 'f', -1, 64)
		mc := drive.Motors[name]
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s (port %d)", name, mc.Port)).
			Value(&values[i]).
			Validate(func(s string) error {
				_, err := parseScale(s)
				return err
			}))
	}
	fields = append(fields, huh.NewConfirm().
		Title("Clamp commands to the motor range?").
		Value(&drive.Clamp))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	for i, name := range motors {
		scale, err := parseScale(values[i])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		mc := drive.Motors[name]
		mc.Scale = scale
		drive.Motors[name] = mc
	}
	return nil
}

func setupBench() (*robot.BenchConfig, error) {
	fmt.Println("Scanning for servo benches...")

	ports := findBenches()
	if len(ports) == 0 {
		return nil, errors.New("no bench with servo IDs 1-6 found")
	}

	port := ports[0]
	if len(ports) > 1 {
		options := make([]huh.Option[string], 0, len(ports))
		for _, p := range ports {
			options = append(options, huh.NewOption(p, p))
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which port is the bench on?").
					Options(options...).
					Value(&port),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
	}

	cal, err := calibrateBench(port)
	if err != nil {
		return nil, err
	}
	return &robot.BenchConfig{Port: port, Calibration: cal}, nil
}

func findBenches() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		if _, err := scanBench(port); err != nil {
			continue
		}
		fmt.Printf("  Found bench on %s\n", port)
		found = append(found, port)
	}
	return found
}

// scanBench opens port and returns its servos if they form a bench.
func scanBench(port string) ([]feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := robot.OpenBus(port)
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		return nil, err
	}
	if !isBench(servos) {
		return nil, fmt.Errorf("not a bench (expected 6 servos with IDs 1-6)")
	}
	return servos, nil
}

func isBench(servos []feetech.FoundServo) bool {
	if len(servos) != 6 {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= 6; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}

// calibrateBench centers each servo's range on its current horn position.
// Servo IDs 1-6 map to motors in AllMotors order.
func calibrateBench(port string) (robot.Calibration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := robot.OpenBus(port)
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		return nil, fmt.Errorf("scan servos: %w", err)
	}
	if !isBench(servos) {
		return nil, fmt.Errorf("not a bench (expected 6 servos with IDs 1-6)")
	}

	cal := make(robot.Calibration, len(servos))
	for i, name := range robot.AllMotors() {
		id := i + 1
		var model = servos[0].Model
		for _, s := range servos {
			if s.ID == id {
				model = s.Model
			}
		}
		pos, err := feetech.NewServo(bus, id, model).Position(ctx)
		if err != nil {
			return nil, fmt.Errorf("read servo %d: %w", id, err)
		}
		cal[name] = benchRange(id, pos)
	}
	return cal, nil
}

// checkBench drives every motor at half forward power through the normal
// wiring and reports where each servo horn ended up.
func checkBench(cfg *robot.Config) error {
	bench, err := robot.NewBench(*cfg.Bench, cfg.Drive)
	if err != nil {
		return err
	}
	defer bench.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := bench.Enable(ctx); err != nil {
		return fmt.Errorf("enable bench: %w", err)
	}
	motors, err := robot.NewDrivetrain(cfg.Drive, bench)
	if err != nil {
		return err
	}

	const testPower = robot.MaxPower / 2
	powers := make(map[robot.MotorName]int, len(robot.AllMotors()))
	for _, name := range robot.AllMotors() {
		powers[name] = testPower
	}
	if err := motors.Apply(ctx, powers); err != nil {
		return err
	}
	time.Sleep(time.Second)

	measured, err := bench.ReadPowers(ctx)
	if err != nil {
		return err
	}
	for _, name := range robot.AllMotors() {
		want := float64(testPower)
		if cfg.Drive.Motors[name].Reversed {
			want = -want
		}
		fmt.Printf("  %-13s want %6.1f  got %6.1f\n", name, want, measured[name])
	}
	return motors.Stop(ctx)
}

// benchRange returns a calibration of ±benchHalfRange around center, shifted
// to stay within the servo's travel.
func benchRange(id, center int) robot.MotorCalibration {
	lo := center - benchHalfRange
	hi := center + benchHalfRange
	if lo < 0 {
		hi -= lo
		lo = 0
	}
	if hi > servoMaxPosition {
		lo -= hi - servoMaxPosition
		hi = servoMaxPosition
	}
	return robot.MotorCalibration{ID: id, RangeMin: lo, RangeMax: hi}
}

func renderWiring(cfg *robot.Config) string {
	rows := make([][]string, 0, len(robot.AllMotors()))
	for _, name := range robot.AllMotors() {
		mc := cfg.Drive.Motors[name]
		servo := "-"
		if cfg.Bench != nil {
			if bc, ok := cfg.Bench.Calibration[name]; ok {
				servo = fmt.Sprintf("%d (%d-%d)", bc.ID, bc.RangeMin, bc.RangeMax)
			}
		}
		rows = append(rows, []string{
			string(name),
			strconv.Itoa(mc.Port),
			strconv.FormatBool(mc.Reversed),
			strconv.FormatFloat(cfg.Drive.Scale(name), 'f', 2, 64),
			servo,
		})
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Motor", "Port", "Reversed", "Scale", "Bench servo").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true).Foreground(lipgloss.Color("12"))
			}
			return cellStyle
		})
	return t.Render()
}
