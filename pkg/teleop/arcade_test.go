package teleop

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gwillem/vexdrive/pkg/display"
	"github.com/gwillem/vexdrive/pkg/robot"
)

func sides(left, right int) Commands {
	return Commands{
		robot.LeftFront: left, robot.LeftMiddle: left, robot.LeftRear: left,
		robot.RightFront: right, robot.RightMiddle: right, robot.RightRear: right,
	}
}

func TestMix(t *testing.T) {
	for forward := -127; forward <= 127; forward += 17 {
		for turn := -127; turn <= 127; turn += 13 {
			left, right := Mix(forward, turn)
			if left != forward-turn || right != forward+turn {
				t.Fatalf("Mix(%d, %d) = (%d, %d), want (%d, %d)",
					forward, turn, left, right, forward-turn, forward+turn)
			}
		}
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    Commands
	}{
		{"straight", Reading{Forward: 100, Turn: 0}, sides(100, 100)},
		{"pure rotation", Reading{Forward: 0, Turn: 50}, sides(-50, 50)},
		{"arc", Reading{Forward: 60, Turn: 20}, sides(40, 80)},
		{"reverse", Reading{Forward: -127, Turn: 0}, sides(-127, -127)},
		{"rest", Reading{}, sides(0, 0)},
		{"unclamped", Reading{Forward: 127, Turn: -127}, sides(254, 0)},
	}

	cfg := robot.DefaultConfig().Drive
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.reading, cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute(%+v) mismatch (-want +got):\n%s", tt.reading, diff)
			}
		})
	}
}

func TestCompute_ScaleFactors(t *testing.T) {
	cfg := robot.DefaultConfig().Drive
	scales := map[robot.MotorName]float64{
		robot.LeftFront:   0.9,
		robot.LeftMiddle:  1.0,
		robot.LeftRear:    1.1,
		robot.RightFront:  0.5,
		robot.RightMiddle: 0.95,
		robot.RightRear:   1.25,
	}
	for name, s := range scales {
		mc := cfg.Motors[name]
		mc.Scale = s
		cfg.Motors[name] = mc
	}

	r := Reading{Forward: 60, Turn: 20} // left 40, right 80
	got := Compute(r, cfg)

	for name, s := range scales {
		side := 40
		if name.Side() == robot.Right {
			side = 80
		}
		if want := int(float64(side) * s); got[name] != want {
			t.Errorf("%s = %d, want %d", name, got[name], want)
		}
	}
}

func TestCompute_TruncatesTowardZero(t *testing.T) {
	cfg := robot.DefaultConfig().Drive
	mc := cfg.Motors[robot.LeftFront]
	mc.Scale = 0.95
	cfg.Motors[robot.LeftFront] = mc

	// 45 * 0.95 = 42.75, -45 * 0.95 = -42.75
	if got := Compute(Reading{Forward: 45}, cfg)[robot.LeftFront]; got != 42 {
		t.Errorf("positive = %d, want 42", got)
	}
	if got := Compute(Reading{Forward: -45}, cfg)[robot.LeftFront]; got != -42 {
		t.Errorf("negative = %d, want -42", got)
	}
}

func TestCompute_Clamp(t *testing.T) {
	cfg := robot.DefaultConfig().Drive
	cfg.Clamp = true

	got := Compute(Reading{Forward: 127, Turn: 127}, cfg)
	if diff := cmp.Diff(sides(0, 127), got); diff != "" {
		t.Errorf("clamped mismatch (-want +got):\n%s", diff)
	}

	got = Compute(Reading{Forward: -100, Turn: 100}, cfg)
	if diff := cmp.Diff(sides(-127, 0), got); diff != "" {
		t.Errorf("clamped mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	cfg := robot.DefaultConfig().Drive
	r := Reading{Forward: 33, Turn: -71}

	first := Compute(r, cfg)
	for i := 0; i < 100; i++ {
		if diff := cmp.Diff(first, Compute(r, cfg)); diff != "" {
			t.Fatalf("call %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		buttons uint8
		want    string
	}{
		{0, "0 0 0"},
		{display.BtnLeft, "1 0 0"},
		{display.BtnCenter, "0 1 0"},
		{display.BtnRight, "0 0 1"},
		{display.BtnLeft | display.BtnRight, "1 0 1"},
		{display.BtnLeft | display.BtnCenter | display.BtnRight, "1 1 1"},
		{0xF8 | display.BtnCenter, "0 1 0"}, // unknown bits ignored
	}

	for _, tt := range tests {
		if got := StatusLine(tt.buttons); got != tt.want {
			t.Errorf("StatusLine(%03b) = %q, want %q", tt.buttons, got, tt.want)
		}
	}
}
