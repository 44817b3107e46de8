// Package teleop provides the operator-control drive loop.
package teleop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/gwillem/vexdrive/pkg/robot"
)

// StatusLineNumber is the LCD line the button readout is printed on.
const StatusLineNumber = 0

// State is a snapshot of one control cycle.
type State struct {
	Reading   Reading
	Commands  Commands
	Status    string
	Timestamp time.Time
	Error     error
}

// StatusDisplay is where the loop prints its button readout.
type StatusDisplay interface {
	ReadButtons() uint8
	Print(line int, format string, args ...any) bool
}

// Config holds configuration for the controller.
type Config struct {
	Drive      robot.DriveConfig
	Gamepad    robot.Gamepad
	Drivetrain *robot.Drivetrain
	Display    StatusDisplay
	Logger     *zap.SugaredLogger
	Clock      clock.Clock
}

// Controller runs the arcade drive loop. It holds the gamepad, drivetrain
// and display handles exclusively while running.
type Controller struct {
	drive   robot.DriveConfig
	gamepad robot.Gamepad
	motors  *robot.Drivetrain
	lcd     StatusDisplay
	logger  *zap.SugaredLogger
	clock   clock.Clock

	mu      sync.Mutex
	running bool
	lastErr string
	stateCh chan State
	logCh   chan string
}

// NewController creates a new teleop controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Gamepad == nil {
		return nil, errors.New("gamepad is required")
	}
	if cfg.Drivetrain == nil {
		return nil, errors.New("drivetrain is required")
	}
	if cfg.Display == nil {
		return nil, errors.New("display is required")
	}
	if err := cfg.Drive.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drive config: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return &Controller{
		drive:   cfg.Drive,
		gamepad: cfg.Gamepad,
		motors:  cfg.Drivetrain,
		lcd:     cfg.Display,
		logger:  cfg.Logger,
		clock:   cfg.Clock,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Period returns the cycle period.
func (c *Controller) Period() time.Duration {
	return c.drive.Period()
}

// Running reports whether Run is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) log(format string, args ...any) {
	c.logger.Infof(format, args...)
	msg := fmt.Sprintf("[%s] %s", c.clock.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Run drives the robot from the gamepad until ctx is cancelled. A cycle runs
// immediately and then once per period. It returns ctx.Err() within one
// cycle of cancellation.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.lastErr = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	period := c.drive.Period()
	c.log("Operator control started (%v cycle)", period)

	ticker := c.clock.Ticker(period)
	defer ticker.Stop()

	c.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			c.log("Operator control stopped")
			return ctx.Err()
		case <-ticker.C:
			c.Step(ctx)
		}
	}
}

// Step runs a single control cycle and returns its snapshot. Motor failures
// do not interrupt the cycle; they are reported in State.Error.
func (c *Controller) Step(ctx context.Context) State {
	reading := Sample(c.gamepad)
	cmds := Compute(reading, c.drive)
	err := c.motors.Apply(ctx, cmds)

	status := StatusLine(c.lcd.ReadButtons())
	c.lcd.Print(StatusLineNumber, "%s", status)

	c.noteError(err)

	s := State{
		Reading:   reading,
		Commands:  cmds,
		Status:    status,
		Timestamp: c.clock.Now(),
		Error:     err,
	}
	c.sendState(s)
	return s
}

// noteError logs motor failures when they change, not every cycle.
func (c *Controller) noteError(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.mu.Lock()
	changed := msg != c.lastErr
	c.lastErr = msg
	c.mu.Unlock()

	if !changed {
		return
	}
	if err != nil {
		c.log("Motor error: %v", err)
	} else {
		c.log("Motors responding")
	}
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}
