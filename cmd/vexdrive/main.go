package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	LogFile string `long:"log-file" default:"vexdrive.log" description:"Log file (rotated)"`
	Verbose bool   `short:"v" long:"verbose" description:"Log debug messages"`

	Setup       SetupCommand       `command:"setup" description:"Configure motor wiring, scale factors and an optional servo bench"`
	Teleoperate TeleoperateCommand `command:"teleoperate" alias:"teleop" description:"Start the driver station (arcade drive)"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "vexdrive - six-motor arcade drive competition program"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
