// Package competition hosts a robot program the way the field control
// system does: initialize once, then run one task per competition mode,
// stopping it outright whenever the mode changes.
package competition

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Robot is the set of callbacks a competition program provides.
type Robot interface {
	// Initialize runs once at startup; no mode runs until it returns.
	Initialize(ctx context.Context) error
	Disabled(ctx context.Context) error
	// CompetitionInitialize runs after Initialize when connected to field
	// control, while the robot is still disabled.
	CompetitionInitialize(ctx context.Context) error
	Autonomous(ctx context.Context) error
	OpControl(ctx context.Context) error
}

// Mode is the competition state selected by field control.
type Mode int

const (
	Disabled Mode = iota
	Autonomous
	OpControl
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Autonomous:
		return "autonomous"
	case OpControl:
		return "opcontrol"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config holds configuration for the runtime.
type Config struct {
	// FieldConnected mimics a competition switch or field controller. Without
	// one, OpControl starts right after Initialize.
	FieldConnected bool
	// Halt is called whenever the robot becomes disabled, after the running
	// task has exited, to stop all outputs.
	Halt   func(ctx context.Context) error
	Logger *zap.SugaredLogger
}

// Runtime runs a Robot's mode tasks. Each task gets its own goroutine and
// context; changing mode cancels the context and waits for the task to
// return before starting the next one.
type Runtime struct {
	robot  Robot
	cfg    Config
	logger *zap.SugaredLogger

	mu          sync.Mutex
	started     bool
	initialized bool // Initialize has returned; modes may run
	mode        Mode
	parent      context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewRuntime creates a runtime for robot.
func NewRuntime(robot Robot, cfg Config) *Runtime {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	return &Runtime{
		robot:  robot,
		cfg:    cfg,
		logger: cfg.Logger,
		mode:   Disabled,
	}
}

// Start runs Initialize to completion and then enters the first mode:
// disabled with CompetitionInitialize when field connected, otherwise
// OpControl. ctx bounds the lifetime of every task. If Initialize fails the
// runtime is left unstarted.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errors.New("runtime already started")
	}
	r.started = true
	r.parent = ctx
	r.mu.Unlock()

	r.logger.Info("initialize")
	if err := r.robot.Initialize(ctx); err != nil {
		r.mu.Lock()
		r.started = false
		r.mu.Unlock()
		return fmt.Errorf("initialize: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
	if r.cfg.FieldConnected {
		r.launch(Disabled, "competition_initialize", r.robot.CompetitionInitialize)
		return nil
	}
	r.launch(OpControl, OpControl.String(), r.robot.OpControl)
	return nil
}

// Mode returns the current mode.
func (r *Runtime) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode stops the running task and starts the callback for mode.
// Setting the current mode again restarts its task from the beginning.
// Modes cannot be entered until Initialize has returned.
func (r *Runtime) SetMode(mode Mode) error {
	var task func(context.Context) error
	switch mode {
	case Disabled:
		task = r.robot.Disabled
	case Autonomous:
		task = r.robot.Autonomous
	case OpControl:
		task = r.robot.OpControl
	default:
		return fmt.Errorf("unknown mode %v", mode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return errors.New("runtime not initialized")
	}
	r.launch(mode, mode.String(), task)
	return nil
}

// Stop cancels the running task, waits for it and halts outputs.
func (r *Runtime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.mode = Disabled
}

func (r *Runtime) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.halt()
}

func (r *Runtime) halt() {
	if r.cfg.Halt == nil {
		return
	}
	if err := r.cfg.Halt(context.Background()); err != nil {
		r.logger.Warnw("halt outputs", "error", err)
	}
}

// launch stops any running task and starts the next. It must be called
// with r.mu held.
func (r *Runtime) launch(mode Mode, name string, task func(context.Context) error) {
	r.stopLocked()

	ctx, cancel := context.WithCancel(r.parent)
	done := make(chan struct{})
	r.mode = mode
	r.cancel = cancel
	r.done = done

	r.logger.Infow("mode task started", "mode", mode.String(), "task", name)
	go func() {
		defer close(done)
		err := task(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			r.logger.Infow("mode task exited", "task", name)
		default:
			r.logger.Errorw("mode task failed", "task", name, "error", err)
		}
	}()
}
