package robot

import "sync"

// Axis identifies an analog stick channel on the controller.
type Axis int

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY
)

// Gamepad is the operator's controller.
type Gamepad interface {
	// Analog returns the axis value in [-MaxPower, MaxPower].
	Analog(axis Axis) int
}

// VirtualGamepad is a Gamepad whose sticks are set in software, e.g. from
// keyboard input.
type VirtualGamepad struct {
	mu   sync.RWMutex
	axes [4]int
}

// Analog returns the current value of an axis.
func (g *VirtualGamepad) Analog(axis Axis) int {
	if axis < LeftX || axis > RightY {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.axes[axis]
}

// Set moves an axis to an absolute value, limited to ±MaxPower.
func (g *VirtualGamepad) Set(axis Axis, value int) {
	if axis < LeftX || axis > RightY {
		return
	}
	g.mu.Lock()
	g.axes[axis] = limit(value)
	g.mu.Unlock()
}

// Nudge moves an axis by delta and returns the new value.
func (g *VirtualGamepad) Nudge(axis Axis, delta int) int {
	if axis < LeftX || axis > RightY {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.axes[axis] = limit(g.axes[axis] + delta)
	return g.axes[axis]
}

// Center returns every stick to rest.
func (g *VirtualGamepad) Center() {
	g.mu.Lock()
	g.axes = [4]int{}
	g.mu.Unlock()
}

func limit(v int) int {
	return max(-MaxPower, min(v, MaxPower))
}
