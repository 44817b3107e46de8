// Package robot provides the chassis model for a six-motor skid-steer drive:
// motor roles, port wiring, configuration and actuator backends.
package robot

// MotorName identifies a drive motor by its position on the chassis.
type MotorName string

// Motor names for the six-motor drivetrain.
const (
	LeftFront   MotorName = "left_front"
	LeftMiddle  MotorName = "left_middle"
	LeftRear    MotorName = "left_rear"
	RightFront  MotorName = "right_front"
	RightMiddle MotorName = "right_middle"
	RightRear   MotorName = "right_rear"
)

// MaxPower is the largest magnitude a motor accepts for a power command.
const MaxPower = 127

// Side is one half of the drivetrain.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// AllMotors returns all motor names in order (left side first, front to rear).
func AllMotors() []MotorName {
	return []MotorName{
		LeftFront,
		LeftMiddle,
		LeftRear,
		RightFront,
		RightMiddle,
		RightRear,
	}
}

// LeftMotors returns the left side motors, front to rear.
func LeftMotors() []MotorName {
	return []MotorName{LeftFront, LeftMiddle, LeftRear}
}

// RightMotors returns the right side motors, front to rear.
func RightMotors() []MotorName {
	return []MotorName{RightFront, RightMiddle, RightRear}
}

// Side returns which half of the drivetrain the motor belongs to.
func (n MotorName) Side() Side {
	switch n {
	case RightFront, RightMiddle, RightRear:
		return Right
	}
	return Left
}
