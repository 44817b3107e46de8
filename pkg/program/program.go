// Package program is the competition program for the six-motor drive base.
package program

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gwillem/vexdrive/pkg/display"
	"github.com/gwillem/vexdrive/pkg/robot"
	"github.com/gwillem/vexdrive/pkg/teleop"
)

// Banner is shown on LCD line 1 after initialize.
const Banner = "Samyukta, Vidita, Kylie, Vidushi & Yasha "

// Display lines used by the program.
const (
	bannerLine = 1
	toggleLine = 2
)

// Config holds configuration for the program.
type Config struct {
	Drive   robot.DriveConfig
	Backend robot.Backend
	Gamepad robot.Gamepad
	LCD     *display.LCD
	Logger  *zap.SugaredLogger
	Clock   clock.Clock
}

// Program implements competition.Robot.
type Program struct {
	lcd     *display.LCD
	toggle  *display.PressToggle
	backend robot.Backend
	motors  *robot.Drivetrain
	teleop  *teleop.Controller
	logger  *zap.SugaredLogger
}

// New wires the drivetrain and teleop controller.
func New(cfg Config) (*Program, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.LCD == nil {
		cfg.LCD = display.New()
	}

	motors, err := robot.NewDrivetrain(cfg.Drive, cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("create drivetrain: %w", err)
	}

	ctrl, err := teleop.NewController(teleop.Config{
		Drive:      cfg.Drive,
		Gamepad:    cfg.Gamepad,
		Drivetrain: motors,
		Display:    cfg.LCD,
		Logger:     cfg.Logger.Named("teleop"),
		Clock:      cfg.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("create teleop controller: %w", err)
	}

	return &Program{
		lcd:     cfg.LCD,
		toggle:  display.NewPressToggle(cfg.LCD, display.BtnCenter, toggleLine, display.PressedText),
		backend: cfg.Backend,
		motors:  motors,
		teleop:  ctrl,
		logger:  cfg.Logger,
	}, nil
}

// Teleop returns the operator-control loop, e.g. to watch its states.
func (p *Program) Teleop() *teleop.Controller {
	return p.teleop
}

// Halt stops all drive motors.
func (p *Program) Halt(ctx context.Context) error {
	return p.motors.Stop(ctx)
}

// Initialize sets up the LCD banner and the center button toggle.
func (p *Program) Initialize(ctx context.Context) error {
	p.lcd.Initialize()
	p.lcd.SetText(bannerLine, Banner)
	p.toggle.Init()
	p.logger.Info("initialized")
	return nil
}

// Disabled has nothing to do; the runtime halts the motors.
func (p *Program) Disabled(ctx context.Context) error {
	return nil
}

// CompetitionInitialize has nothing to do.
func (p *Program) CompetitionInitialize(ctx context.Context) error {
	return nil
}

// Autonomous has no routine.
func (p *Program) Autonomous(ctx context.Context) error {
	return nil
}

// OpControl drives from the gamepad until the mode ends.
func (p *Program) OpControl(ctx context.Context) error {
	return p.teleop.Run(ctx)
}

// Close tears down the toggle and releases the actuator backend.
func (p *Program) Close() error {
	p.toggle.Close()
	return multierr.Combine(
		p.motors.Stop(context.Background()),
		p.backend.Close(),
	)
}
