package teleop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap/zaptest"

	"github.com/gwillem/vexdrive/pkg/display"
	"github.com/gwillem/vexdrive/pkg/robot"
)

type rig struct {
	ctrl    *Controller
	gamepad *robot.VirtualGamepad
	backend *robot.SimBackend
	lcd     *display.LCD
	clock   *clock.Mock
}

func newRig(t *testing.T) *rig {
	t.Helper()

	drive := robot.DefaultConfig().Drive
	backend := robot.NewSimBackend()
	dt, err := robot.NewDrivetrain(drive, backend)
	if err != nil {
		t.Fatalf("NewDrivetrain: %v", err)
	}

	lcd := display.New()
	lcd.Initialize()
	gamepad := &robot.VirtualGamepad{}
	mock := clock.NewMock()

	ctrl, err := NewController(Config{
		Drive:      drive,
		Gamepad:    gamepad,
		Drivetrain: dt,
		Display:    lcd,
		Logger:     zaptest.NewLogger(t).Sugar(),
		Clock:      mock,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	return &rig{ctrl: ctrl, gamepad: gamepad, backend: backend, lcd: lcd, clock: mock}
}

func (r *rig) portPowers() map[int]int {
	powers := make(map[int]int)
	for _, port := range []int{1, 2, 3, 11, 12, 13} {
		powers[port] = r.backend.Port(port).Power()
	}
	return powers
}

func waitState(t *testing.T, ctrl *Controller) State {
	t.Helper()
	select {
	case s := <-ctrl.States():
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return State{}
	}
}

func TestNewController_RequiresHandles(t *testing.T) {
	drive := robot.DefaultConfig().Drive
	dt, _ := robot.NewDrivetrain(drive, robot.NewSimBackend())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no gamepad", Config{Drive: drive, Drivetrain: dt, Display: display.New()}},
		{"no drivetrain", Config{Drive: drive, Gamepad: &robot.VirtualGamepad{}, Display: display.New()}},
		{"no display", Config{Drive: drive, Gamepad: &robot.VirtualGamepad{}, Drivetrain: dt}},
	}
	for _, tt := range tests {
		if _, err := NewController(tt.cfg); err == nil {
			t.Errorf("%s: NewController should fail", tt.name)
		}
	}
}

func TestController_Step(t *testing.T) {
	r := newRig(t)
	r.gamepad.Set(robot.LeftY, 60)
	r.gamepad.Set(robot.RightX, 20)
	r.lcd.Press(display.BtnLeft)
	r.lcd.Press(display.BtnRight)

	s := r.ctrl.Step(context.Background())

	if s.Reading != (Reading{Forward: 60, Turn: 20}) {
		t.Errorf("Reading = %+v", s.Reading)
	}
	if s.Error != nil {
		t.Errorf("Error = %v", s.Error)
	}

	// Right side is mounted reversed, so the wire value is negated.
	want := map[int]int{1: 40, 2: 40, 3: 40, 11: -80, 12: -80, 13: -80}
	for port, power := range r.portPowers() {
		if power != want[port] {
			t.Errorf("port %d = %d, want %d", port, power, want[port])
		}
	}

	if got := r.lcd.Text(StatusLineNumber); got != "1 0 1" {
		t.Errorf("status line = %q, want %q", got, "1 0 1")
	}
	if s.Status != "1 0 1" {
		t.Errorf("State.Status = %q", s.Status)
	}
}

func TestController_StepNoCarryOver(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()

	r.gamepad.Set(robot.LeftY, 127)
	r.ctrl.Step(ctx)
	r.gamepad.Center()
	s := r.ctrl.Step(ctx)

	for name, cmd := range s.Commands {
		if cmd != 0 {
			t.Errorf("%s = %d after sticks centered, want 0", name, cmd)
		}
	}
}

func TestController_StepMotorFailure(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()
	r.backend.Port(12).Fail(errors.New("disconnected"))
	r.gamepad.Set(robot.LeftY, 50)

	s := r.ctrl.Step(ctx)
	if s.Error == nil {
		t.Fatal("State.Error should report the failed motor")
	}
	for _, port := range []int{1, 2, 3, 11, 12, 13} {
		if got := r.backend.Port(port).Commands(); got != 1 {
			t.Errorf("port %d commanded %d times, want 1", port, got)
		}
	}

	// Logged once while the failure persists.
	r.ctrl.Step(ctx)
	logs := 0
	for len(r.ctrl.Logs()) > 0 {
		<-r.ctrl.Logs()
		logs++
	}
	if logs != 1 {
		t.Errorf("got %d log lines, want 1", logs)
	}
}

func TestController_Run(t *testing.T) {
	r := newRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.gamepad.Set(robot.LeftY, 100)

	done := make(chan error, 1)
	go func() { done <- r.ctrl.Run(ctx) }()

	// First cycle runs without waiting for a tick.
	s := waitState(t, r.ctrl)
	if s.Commands[robot.LeftFront] != 100 {
		t.Errorf("first cycle left_front = %d, want 100", s.Commands[robot.LeftFront])
	}

	r.gamepad.Set(robot.RightX, 50)
	r.clock.Add(r.ctrl.Period())
	s = waitState(t, r.ctrl)
	if s.Commands[robot.LeftFront] != 50 || s.Commands[robot.RightFront] != 150 {
		t.Errorf("second cycle = %v", s.Commands)
	}

	if err := r.ctrl.Run(ctx); err == nil {
		t.Error("second Run should fail while running")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if r.ctrl.Running() {
		t.Error("Running() true after Run returned")
	}
}

func TestController_RunRestartsFresh(t *testing.T) {
	r := newRig(t)

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- r.ctrl.Run(ctx) }()
		waitState(t, r.ctrl)
		cancel()
		<-done
	}

	if got := r.backend.Port(1).Commands(); got != 2 {
		t.Errorf("port 1 commanded %d times over two enables, want 2", got)
	}
}
