package robot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"go.uber.org/multierr"
)

// Smart port range on the robot brain.
const (
	MinPort = 1
	MaxPort = 21
)

// DefaultPeriod is the teleop cycle period.
const DefaultPeriod = 20 * time.Millisecond

// Config holds the robot configuration
type Config struct {
	Drive DriveConfig  `json:"drive"`
	Bench *BenchConfig `json:"bench,omitempty"`
}

// DriveConfig maps the physical chassis layout to logical motor roles.
// It is fixed for a session; changing it requires restarting with a new file.
type DriveConfig struct {
	Motors   map[MotorName]MotorConfig `json:"motors"`
	PeriodMS int                       `json:"period_ms"`
	Clamp    bool                      `json:"clamp,omitempty"` // clamp scaled commands to ±MaxPower
}

// MotorConfig holds wiring and trim for a single drive motor.
type MotorConfig struct {
	Port     int     `json:"port"`
	Reversed bool    `json:"reversed,omitempty"`
	Scale    float64 `json:"scale"`
}

// UnmarshalJSON decodes a motor entry, defaulting an omitted scale to 1.0.
func (m *MotorConfig) UnmarshalJSON(data []byte) error {
	type plain MotorConfig
	v := plain{Scale: 1.0}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = MotorConfig(v)
	return nil
}

// BenchConfig holds configuration for a Feetech servo bench rig.
type BenchConfig struct {
	Port        string      `json:"port"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// IsCalibrated returns true if the bench has calibration data for every motor
func (b *BenchConfig) IsCalibrated() bool {
	return len(b.Calibration) == len(AllMotors())
}

// DefaultConfig returns the stock wiring: left motors on ports 1-3, right
// motors on ports 11-13 mounted reversed, all scales 1.0.
func DefaultConfig() *Config {
	return &Config{
		Drive: DriveConfig{
			Motors: map[MotorName]MotorConfig{
				LeftFront:   {Port: 1, Scale: 1.0},
				LeftMiddle:  {Port: 2, Scale: 1.0},
				LeftRear:    {Port: 3, Scale: 1.0},
				RightFront:  {Port: 11, Reversed: true, Scale: 1.0},
				RightMiddle: {Port: 12, Reversed: true, Scale: 1.0},
				RightRear:   {Port: 13, Reversed: true, Scale: 1.0},
			},
			PeriodMS: int(DefaultPeriod / time.Millisecond),
		},
	}
}

// Period returns the cycle period, falling back to DefaultPeriod.
func (d DriveConfig) Period() time.Duration {
	if d.PeriodMS <= 0 {
		return DefaultPeriod
	}
	return time.Duration(d.PeriodMS) * time.Millisecond
}

// Scale returns the scale factor for a motor, 1.0 if the motor is not
// configured.
func (d DriveConfig) Scale(name MotorName) float64 {
	mc, ok := d.Motors[name]
	if !ok {
		return 1.0
	}
	return mc.Scale
}

// Validate checks that every motor is wired to a distinct port in range and
// that scale factors are usable.
func (d DriveConfig) Validate() error {
	var err error
	seen := make(map[int]MotorName, len(d.Motors))
	for _, name := range AllMotors() {
		mc, ok := d.Motors[name]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("motor %s: missing", name))
			continue
		}
		if mc.Port < MinPort || mc.Port > MaxPort {
			err = multierr.Append(err, fmt.Errorf("motor %s: port %d out of range %d-%d", name, mc.Port, MinPort, MaxPort))
		}
		if other, dup := seen[mc.Port]; dup {
			err = multierr.Append(err, fmt.Errorf("motor %s: port %d already used by %s", name, mc.Port, other))
		}
		seen[mc.Port] = name
		if math.IsNaN(mc.Scale) || math.IsInf(mc.Scale, 0) || mc.Scale <= 0 {
			err = multierr.Append(err, fmt.Errorf("motor %s: invalid scale %v", name, mc.Scale))
		}
	}
	if d.PeriodMS < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid period_ms %d", d.PeriodMS))
	}
	return err
}

// LoadOrDefault loads configuration from path, or returns DefaultConfig if
// the file does not exist. The bool reports whether the file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// LoadConfigFrom loads configuration from a specific file. Motors missing
// from the file keep their default wiring.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Drive.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
