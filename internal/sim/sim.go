// Package sim is an in-process kinematic vehicle: it implements the
// same capability surface as the gRPC link so the agent, the mission
// executor, and their tests run without a flight controller.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/link"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region config

// Config controls the simulated vehicle dynamics.
type Config struct {
	Speed          float64       // cruise speed, m/s
	ClimbRate      float64       // m/s
	BatteryPerStep float64       // percent drained per Step while airborne
	Tick           time.Duration // simulated time advanced per Step
	WindSpeed      float64
	Temperature    float64
	SignalStrength float64
}

// DefaultConfig returns calm-weather dynamics.
func DefaultConfig() Config {
	return Config{
		Speed:          8.0,
		ClimbRate:      3.0,
		BatteryPerStep: 0.2,
		Tick:           time.Second,
		WindSpeed:      2.0,
		Temperature:    22.0,
		SignalStrength: 95.0,
	}
}

// #endregion config

// #region simulator

// Simulator is a deterministic single-vehicle world. It satisfies
// link.Vehicle; time advances only through Step, never wall-clock.
type Simulator struct {
	mu      sync.Mutex
	config  Config
	now     time.Time
	pos     telemetry.Position
	vel     telemetry.Velocity
	heading float64
	battery float64
	armed   bool
	target  *telemetry.Position // nil when holding position

	obstacle float64 // injected obstacle distance, 0 = clear
}

var _ link.Vehicle = (*Simulator)(nil)

// New creates a grounded, fully-charged vehicle at the origin.
func New(config Config) *Simulator {
	return &Simulator{
		config:  config,
		now:     time.Unix(0, 0).UTC(),
		battery: 100,
	}
}

// #endregion simulator

// #region vehicle-interface

// Telemetry returns the current simulated state.
func (s *Simulator) Telemetry(_ context.Context) (telemetry.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return telemetry.Snapshot{
		Timestamp:        s.now,
		Position:         s.pos,
		Velocity:         s.vel,
		Heading:          s.heading,
		Battery:          s.battery,
		SignalStrength:   s.config.SignalStrength,
		WindSpeed:        s.config.WindSpeed,
		Temperature:      s.config.Temperature,
		ObstacleDistance: s.obstacle,
	}, nil
}

// Invoke applies a capability to the simulated vehicle.
func (s *Simulator) Invoke(_ context.Context, capability string, params map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch capability {
	case command.CapArm:
		s.armed = true
	case command.CapDisarm:
		if s.pos.Z > 0.1 {
			return fmt.Errorf("%w: disarm while airborne", link.ErrCapabilityError)
		}
		s.armed = false
	case command.CapTakeoff:
		if !s.armed {
			s.armed = true
		}
		alt := paramOr(params, "altitude", 10)
		s.target = &telemetry.Position{X: s.pos.X, Y: s.pos.Y, Z: alt}
	case command.CapGoto:
		t := telemetry.Position{
			X: paramOr(params, "x", s.pos.X),
			Y: paramOr(params, "y", s.pos.Y),
			Z: paramOr(params, "z", s.pos.Z),
		}
		s.target = &t
	case command.CapLand, command.CapEmergencyStop:
		s.target = &telemetry.Position{X: s.pos.X, Y: s.pos.Y, Z: 0}
	case command.CapRTL:
		s.target = &telemetry.Position{}
	case command.CapHover:
		s.target = nil
		s.vel = telemetry.Velocity{}
	case command.CapSetSpeed:
		s.config.Speed = paramOr(params, "speed", s.config.Speed)
	case command.CapSetHeading:
		s.heading = paramOr(params, "heading", s.heading)
	default:
		return fmt.Errorf("%w: %s", link.ErrCapabilityError, capability)
	}
	return nil
}

// Close is a no-op; the simulator has no transport.
func (s *Simulator) Close() error { return nil }

// #endregion vehicle-interface

// #region stepping

// Step advances simulated time by one tick, moving toward the active
// target and draining battery while airborne.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = s.now.Add(s.config.Tick)
	dt := s.config.Tick.Seconds()

	if s.target == nil {
		s.vel = telemetry.Velocity{}
		if s.pos.Z > 0.1 && s.battery > 0 {
			s.battery -= s.config.BatteryPerStep
		}
		return
	}

	t := *s.target
	dist := telemetry.Distance(s.pos, t)
	reach := s.config.Speed * dt
	if t.X == s.pos.X && t.Y == s.pos.Y {
		reach = s.config.ClimbRate * dt
	}

	if dist <= reach {
		s.pos = t
		s.target = nil
		s.vel = telemetry.Velocity{}
	} else {
		f := reach / dist
		s.vel = telemetry.Velocity{
			VX: (t.X - s.pos.X) / dt * f,
			VY: (t.Y - s.pos.Y) / dt * f,
			VZ: (t.Z - s.pos.Z) / dt * f,
		}
		s.pos.X += (t.X - s.pos.X) * f
		s.pos.Y += (t.Y - s.pos.Y) * f
		s.pos.Z += (t.Z - s.pos.Z) * f
	}

	if s.pos.Z > 0.1 && s.battery > 0 {
		s.battery -= s.config.BatteryPerStep
		if s.battery < 0 {
			s.battery = 0
		}
	}
}

// Idle reports whether the vehicle has no active movement target.
func (s *Simulator) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target == nil
}

// Armed reports motor arm state.
func (s *Simulator) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// #endregion stepping

// #region fault-injection

// SetBattery overrides the battery level, for failure scenarios.
func (s *Simulator) SetBattery(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battery = percent
}

// SetObstacle injects an obstacle at the given distance; 0 clears it.
func (s *Simulator) SetObstacle(distance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacle = distance
}

// #endregion fault-injection

func paramOr(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}
