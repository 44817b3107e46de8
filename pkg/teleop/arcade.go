package teleop

import (
	"fmt"

	"github.com/gwillem/vexdrive/pkg/display"
	"github.com/gwillem/vexdrive/pkg/robot"
)

// Reading is one sample of the operator's sticks.
type Reading struct {
	Forward int // left stick vertical
	Turn    int // right stick horizontal
}

// Sample reads forward and turn from the gamepad.
func Sample(g robot.Gamepad) Reading {
	return Reading{
		Forward: g.Analog(robot.LeftY),
		Turn:    g.Analog(robot.RightX),
	}
}

// Commands holds one power command per motor for a single cycle.
type Commands map[robot.MotorName]int

// Mix converts forward and turn into left and right side power using
// arcade mixing. The result is not clamped and may exceed ±robot.MaxPower.
func Mix(forward, turn int) (left, right int) {
	return forward - turn, forward + turn
}

// Compute derives the six motor commands for a reading. Each command is the
// side's power times the motor's scale factor, truncated toward zero. The
// result depends only on its arguments.
func Compute(r Reading, cfg robot.DriveConfig) Commands {
	left, right := Mix(r.Forward, r.Turn)

	cmds := make(Commands, len(robot.AllMotors()))
	for _, name := range robot.AllMotors() {
		power := left
		if name.Side() == robot.Right {
			power = right
		}
		cmd := int(float64(power) * cfg.Scale(name))
		if cfg.Clamp {
			cmd = max(-robot.MaxPower, min(cmd, robot.MaxPower))
		}
		cmds[name] = cmd
	}
	return cmds
}

// StatusLine formats the LCD button bitmask as "L C R" with 0/1 digits.
func StatusLine(buttons uint8) string {
	return fmt.Sprintf("%d %d %d",
		(buttons&display.BtnLeft)>>2,
		(buttons&display.BtnCenter)>>1,
		buttons&display.BtnRight)
}
