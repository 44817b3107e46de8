package robot

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Actuator is a motor output addressed by smart port.
type Actuator interface {
	// Move commands a signed power. Values outside ±MaxPower are passed
	// through; limiting is the actuator's concern.
	Move(ctx context.Context, power int) error
}

// Backend hands out actuators for smart ports.
type Backend interface {
	Actuator(port int) (Actuator, error)
	Close() error
}

// Motor is an actuator bound to a chassis role. Mounting reversal is applied
// here, once, so callers always command in chassis terms.
type Motor struct {
	Name     MotorName
	Port     int
	Reversed bool
	out      Actuator
}

// Move commands the motor, inverting the sign for reversed mounts.
func (m *Motor) Move(ctx context.Context, power int) error {
	if m.Reversed {
		power = -power
	}
	if err := m.out.Move(ctx, power); err != nil {
		return fmt.Errorf("move %s (port %d): %w", m.Name, m.Port, err)
	}
	return nil
}

// Drivetrain is the set of six drive motors.
type Drivetrain struct {
	motors map[MotorName]*Motor
}

// NewDrivetrain wires every motor in cfg to an actuator from the backend.
func NewDrivetrain(cfg DriveConfig, backend Backend) (*Drivetrain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drive config: %w", err)
	}

	motors := make(map[MotorName]*Motor, len(cfg.Motors))
	for _, name := range AllMotors() {
		mc := cfg.Motors[name]
		out, err := backend.Actuator(mc.Port)
		if err != nil {
			return nil, fmt.Errorf("wire %s: %w", name, err)
		}
		motors[name] = &Motor{
			Name:     name,
			Port:     mc.Port,
			Reversed: mc.Reversed,
			out:      out,
		}
	}
	return &Drivetrain{motors: motors}, nil
}

// Apply sends one command per motor. Every motor is commanded even if an
// earlier one fails; the returned error combines all failures.
func (d *Drivetrain) Apply(ctx context.Context, powers map[MotorName]int) error {
	var err error
	for _, name := range AllMotors() {
		power, ok := powers[name]
		if !ok {
			continue
		}
		err = multierr.Append(err, d.motors[name].Move(ctx, power))
	}
	return err
}

// Stop commands zero power on every motor.
func (d *Drivetrain) Stop(ctx context.Context) error {
	var err error
	for _, name := range AllMotors() {
		err = multierr.Append(err, d.motors[name].Move(ctx, 0))
	}
	return err
}
