// Package display emulates the robot brain's three-button text LCD.
package display

import (
	"fmt"
	"sync"
)

// Lines is the number of text lines on the LCD.
const Lines = 8

// Button bits as reported by ReadButtons.
const (
	BtnRight  uint8 = 1 << 0
	BtnCenter uint8 = 1 << 1
	BtnLeft   uint8 = 1 << 2
)

// LCD is an emulated text display with three buttons. It is safe for
// concurrent use: the robot program writes to it while a UI reads it.
type LCD struct {
	mu          sync.Mutex
	initialized bool
	lines       [Lines]string
	buttons     uint8
	callbacks   map[uint8]func()
}

// New creates an uninitialized LCD.
func New() *LCD {
	return &LCD{callbacks: make(map[uint8]func())}
}

// Initialize clears the screen and enables it for writes.
func (l *LCD) Initialize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialized = true
	l.lines = [Lines]string{}
}

// IsInitialized reports whether Initialize has been called.
func (l *LCD) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized
}

// SetText replaces a line. Writes before Initialize or to a line outside
// 0..Lines-1 are ignored and report false.
func (l *LCD) SetText(line int, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.initialized || line < 0 || line >= Lines {
		return false
	}
	l.lines[line] = text
	return true
}

// Print formats a line like fmt.Sprintf.
func (l *LCD) Print(line int, format string, args ...any) bool {
	return l.SetText(line, fmt.Sprintf(format, args...))
}

// ClearLine blanks a line.
func (l *LCD) ClearLine(line int) bool {
	return l.SetText(line, "")
}

// Text returns the current content of a line.
func (l *LCD) Text(line int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if line < 0 || line >= Lines {
		return ""
	}
	return l.lines[line]
}

// Snapshot returns a copy of every line.
func (l *LCD) Snapshot() [Lines]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines
}

// ReadButtons returns the bitmask of buttons currently held.
func (l *LCD) ReadButtons() uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buttons
}

// RegisterButton sets the callback fired when btn is pressed, replacing any
// previous one.
func (l *LCD) RegisterButton(btn uint8, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks[btn] = fn
}

// UnregisterButton removes the callback for btn.
func (l *LCD) UnregisterButton(btn uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.callbacks, btn)
}

// Press marks btn as held and fires its callback on the transition from
// released to held.
func (l *LCD) Press(btn uint8) {
	l.mu.Lock()
	wasHeld := l.buttons&btn != 0
	l.buttons |= btn
	fn := l.callbacks[btn]
	l.mu.Unlock()

	// Callbacks write to the LCD, so run them unlocked.
	if !wasHeld && fn != nil {
		fn()
	}
}

// Release marks btn as no longer held.
func (l *LCD) Release(btn uint8) {
	l.mu.Lock()
	l.buttons &^= btn
	l.mu.Unlock()
}

// Click presses and releases btn.
func (l *LCD) Click(btn uint8) {
	l.Press(btn)
	l.Release(btn)
}
