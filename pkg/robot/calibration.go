package robot

// MotorCalibration maps a bench servo's raw position range onto the motor
// power range, so a commanded power can be shown as a horn angle.
type MotorCalibration struct {
	ID       int `json:"id"`
	RangeMin int `json:"range_min"`
	RangeMax int `json:"range_max"`
}

// Calibration holds calibration data for all motors, keyed by motor name.
type Calibration map[MotorName]MotorCalibration

// Normalize converts a raw servo position to a power in the range [-MaxPower, MaxPower].
func (c MotorCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return (float64(raw-c.RangeMin)/rangeSize)*2*MaxPower - MaxPower
}

// Denormalize converts a power to a raw servo position. Powers outside
// [-MaxPower, MaxPower] pin to the ends of the range.
func (c MotorCalibration) Denormalize(power float64) int {
	if power > MaxPower {
		power = MaxPower
	} else if power < -MaxPower {
		power = -MaxPower
	}
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int((power+MaxPower)/(2*MaxPower)*rangeSize) + c.RangeMin
}

// MotorIDs returns the servo IDs for all motors in the calibration.
func (c Calibration) MotorIDs() []int {
	ids := make([]int, 0, len(c))
	// Use AllMotors() to ensure consistent ordering
	for _, name := range AllMotors() {
		if mc, ok := c[name]; ok {
			ids = append(ids, mc.ID)
		}
	}
	return ids
}

// ByID returns motor name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (MotorName, MotorCalibration, bool) {
	for name, mc := range c {
		if mc.ID == id {
			return name, mc, true
		}
	}
	return "", MotorCalibration{}, false
}
