package display

import "sync"

// PressedText is shown while a PressToggle is on.
const PressedText = "I was pressed!"

// PressToggle flips a line of text on the LCD each time a button is
// pressed. It starts off with the line cleared.
type PressToggle struct {
	lcd  *LCD
	btn  uint8
	line int
	text string

	mu      sync.Mutex
	pressed bool
}

// NewPressToggle creates a toggle for btn that writes text on line.
func NewPressToggle(lcd *LCD, btn uint8, line int, text string) *PressToggle {
	return &PressToggle{
		lcd:  lcd,
		btn:  btn,
		line: line,
		text: text,
	}
}

// Init resets the toggle to off and registers it with the LCD.
func (t *PressToggle) Init() {
	t.mu.Lock()
	t.pressed = false
	t.mu.Unlock()
	t.lcd.ClearLine(t.line)
	t.lcd.RegisterButton(t.btn, t.OnPress)
}

// Close unregisters the toggle and clears its line.
func (t *PressToggle) Close() {
	t.lcd.UnregisterButton(t.btn)
	t.mu.Lock()
	t.pressed = false
	t.mu.Unlock()
	t.lcd.ClearLine(t.line)
}

// OnPress flips the toggle and updates the display.
func (t *PressToggle) OnPress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed = !t.pressed
	if t.pressed {
		t.lcd.SetText(t.line, t.text)
	} else {
		t.lcd.ClearLine(t.line)
	}
}

// Pressed reports the current toggle state.
func (t *PressToggle) Pressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed
}
