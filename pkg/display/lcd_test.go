package display

import "testing"

func TestLCD_WritesRequireInitialize(t *testing.T) {
	lcd := New()

	if lcd.SetText(1, "early") {
		t.Error("SetText before Initialize should be ignored")
	}

	lcd.Initialize()
	if !lcd.SetText(1, "Welcome") {
		t.Fatal("SetText after Initialize failed")
	}
	if got := lcd.Text(1); got != "Welcome" {
		t.Errorf("Text(1) = %q, want %q", got, "Welcome")
	}
}

func TestLCD_LineBounds(t *testing.T) {
	lcd := New()
	lcd.Initialize()

	for _, line := range []int{-1, Lines, 100} {
		if lcd.SetText(line, "x") {
			t.Errorf("SetText(%d) should be rejected", line)
		}
		if got := lcd.Text(line); got != "" {
			t.Errorf("Text(%d) = %q, want empty", line, got)
		}
	}
}

func TestLCD_PrintAndClear(t *testing.T) {
	lcd := New()
	lcd.Initialize()

	lcd.Print(0, "%d %d %d", 1, 0, 1)
	if got := lcd.Text(0); got != "1 0 1" {
		t.Errorf("Text(0) = %q, want %q", got, "1 0 1")
	}

	lcd.ClearLine(0)
	if got := lcd.Text(0); got != "" {
		t.Errorf("Text(0) after ClearLine = %q", got)
	}
}

func TestLCD_Buttons(t *testing.T) {
	lcd := New()
	lcd.Initialize()

	calls := 0
	lcd.RegisterButton(BtnCenter, func() { calls++ })

	lcd.Press(BtnLeft)
	lcd.Press(BtnCenter)
	if got := lcd.ReadButtons(); got != BtnLeft|BtnCenter {
		t.Errorf("ReadButtons() = %03b, want %03b", got, BtnLeft|BtnCenter)
	}

	// Holding does not re-fire.
	lcd.Press(BtnCenter)
	if calls != 1 {
		t.Errorf("callback fired %d times while held, want 1", calls)
	}

	lcd.Release(BtnCenter)
	lcd.Click(BtnCenter)
	if calls != 2 {
		t.Errorf("callback fired %d times, want 2", calls)
	}
	if got := lcd.ReadButtons(); got != BtnLeft {
		t.Errorf("ReadButtons() = %03b, want %03b", got, BtnLeft)
	}

	lcd.UnregisterButton(BtnCenter)
	lcd.Click(BtnCenter)
	if calls != 2 {
		t.Error("callback fired after UnregisterButton")
	}
}
