package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.uber.org/multierr"
)

// Bench is a test rig where six Feetech servos stand in for the drive
// motors. A commanded power is shown as a horn angle within the servo's
// calibrated range.
type Bench struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
	ports       map[int]MotorName
}

// OpenBus opens a Feetech STS bus at the rig's baud rate.
func OpenBus(port string) (*feetech.Bus, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}
	return bus, nil
}

// NewBench opens the bench bus and maps drive ports to servos.
func NewBench(cfg BenchConfig, drive DriveConfig) (*Bench, error) {
	if !cfg.IsCalibrated() {
		return nil, fmt.Errorf("bench on %s is not calibrated", cfg.Port)
	}

	bus, err := OpenBus(cfg.Port)
	if err != nil {
		return nil, err
	}

	ports := make(map[int]MotorName, len(drive.Motors))
	for name, mc := range drive.Motors {
		ports[mc.Port] = name
	}

	// Create servo group from calibration IDs
	group := feetech.NewServoGroupByIDs(bus, cfg.Calibration.MotorIDs()...)

	return &Bench{
		bus:         bus,
		group:       group,
		calibration: cfg.Calibration,
		ports:       ports,
	}, nil
}

// Close releases torque and closes the bench's bus connection.
func (b *Bench) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return multierr.Combine(
		b.group.DisableAll(ctx),
		b.bus.Close(),
	)
}

// Enable enables torque on all servos.
func (b *Bench) Enable(ctx context.Context) error {
	return b.group.EnableAll(ctx)
}

// Actuator returns the servo standing in for the motor on a drive port.
func (b *Bench) Actuator(port int) (Actuator, error) {
	name, ok := b.ports[port]
	if !ok {
		return nil, fmt.Errorf("no motor wired to port %d", port)
	}
	cal, ok := b.calibration[name]
	if !ok {
		return nil, fmt.Errorf("no bench servo calibrated for %s", name)
	}
	return &benchServo{group: b.group, cal: cal}, nil
}

// ReadPowers reads every servo and converts its position back to a power.
func (b *Bench) ReadPowers(ctx context.Context) (map[MotorName]float64, error) {
	rawPositions, err := b.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	powers := make(map[MotorName]float64, len(rawPositions))
	for id, raw := range rawPositions {
		name, cal, ok := b.calibration.ByID(id)
		if !ok {
			continue
		}
		powers[name] = cal.Normalize(raw)
	}
	return powers, nil
}

type benchServo struct {
	group *feetech.ServoGroup
	cal   MotorCalibration
}

func (s *benchServo) Move(ctx context.Context, power int) error {
	raw := feetech.PositionMap{s.cal.ID: s.cal.Denormalize(float64(power))}
	if err := s.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("write position: %w", err)
	}
	return nil
}
