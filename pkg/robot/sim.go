package robot

import (
	"context"
	"sync"
)

// SimMotor is an in-memory actuator that remembers the last command.
type SimMotor struct {
	mu       sync.Mutex
	power    int
	commands int
	err      error
}

// Move records the commanded power. If a failure has been injected, the
// command is still recorded and the failure returned.
func (m *SimMotor) Move(ctx context.Context, power int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.power = power
	m.commands++
	return m.err
}

// Power returns the last commanded power.
func (m *SimMotor) Power() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.power
}

// Commands returns how many times the motor has been commanded.
func (m *SimMotor) Commands() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands
}

// Fail makes subsequent moves return err (nil clears it), e.g. to mimic an
// unplugged motor.
func (m *SimMotor) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SimBackend creates SimMotors on demand.
type SimBackend struct {
	mu     sync.Mutex
	motors map[int]*SimMotor
}

// NewSimBackend creates an empty simulated backend.
func NewSimBackend() *SimBackend {
	return &SimBackend{motors: make(map[int]*SimMotor)}
}

// Actuator returns the simulated motor on a port, creating it if needed.
func (b *SimBackend) Actuator(port int) (Actuator, error) {
	return b.Port(port), nil
}

// Port returns the simulated motor on a port.
func (b *SimBackend) Port(port int) *SimMotor {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.motors[port]
	if !ok {
		m = &SimMotor{}
		b.motors[port] = m
	}
	return m
}

// Close is a no-op.
func (b *SimBackend) Close() error {
	return nil
}
