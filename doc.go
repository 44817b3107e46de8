// Package vexdrive is a competition program for a six-motor skid-steer
// drive base, with a terminal driver station for running it without the
// robot brain.
//
// The program follows the usual competition lifecycle: initialize once, then
// one task per mode (disabled, autonomous, operator control) that is stopped
// outright when field control changes mode. Operator control is an arcade
// drive loop: every 20ms the left stick's vertical axis and the right
// stick's horizontal axis are mixed into left and right side power, scaled
// per motor, and sent to all six motors.
//
// # Installation
//
//	go install github.com/gwillem/vexdrive/cmd/vexdrive@latest
//
// # Usage
//
// Optionally tune scale factors and set up a servo bench:
//
//	vexdrive setup
//
// Then start the driver station:
//
//	vexdrive teleoperate
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/vexdrive: CLI with setup and teleoperate commands
//   - pkg/robot: Motor roles, wiring, configuration and actuator backends
//   - pkg/teleop: Arcade drive loop
//   - pkg/display: Emulated brain LCD and button toggle
//   - pkg/competition: Competition mode runtime
//   - pkg/program: The robot program's lifecycle callbacks
package vexdrive
