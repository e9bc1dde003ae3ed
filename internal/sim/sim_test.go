package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/link"
)

// #region helpers

func step(s *Simulator, n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// #endregion helpers

func TestTakeoffReachesAltitude(t *testing.T) {
	s := New(DefaultConfig())
	ctx := context.Background()

	if err := s.Invoke(ctx, command.CapTakeoff, map[string]float64{"altitude": 9}); err != nil {
		t.Fatalf("takeoff: %v", err)
	}
	step(s, 5) // climb rate 3 m/s

	snap, err := s.Telemetry(ctx)
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	if snap.Position.Z != 9 {
		t.Fatalf("altitude = %v, want 9", snap.Position.Z)
	}
	if !s.Idle() {
		t.Fatal("vehicle still moving after arrival")
	}
	if !s.Armed() {
		t.Fatal("takeoff did not arm")
	}
}

func TestGotoConvergesAndDrainsBattery(t *testing.T) {
	s := New(DefaultConfig())
	ctx := context.Background()

	s.Invoke(ctx, command.CapTakeoff, map[string]float64{"altitude": 10})
	step(s, 5)
	s.Invoke(ctx, command.CapGoto, map[string]float64{"x": 40, "y": 0, "z": 10})
	step(s, 10) // 8 m/s cruise

	snap, _ := s.Telemetry(ctx)
	if snap.Position.X != 40 {
		t.Fatalf("x = %v, want 40", snap.Position.X)
	}
	if snap.Battery >= 100 {
		t.Fatalf("battery did not drain: %v", snap.Battery)
	}
}

func TestRTLReturnsHome(t *testing.T) {
	s := New(DefaultConfig())
	ctx := context.Background()

	s.Invoke(ctx, command.CapTakeoff, map[string]float64{"altitude": 10})
	step(s, 5)
	s.Invoke(ctx, command.CapGoto, map[string]float64{"x": 16, "y": 0, "z": 10})
	step(s, 3)
	s.Invoke(ctx, command.CapRTL, nil)
	step(s, 10)

	snap, _ := s.Telemetry(ctx)
	if snap.Position.X != 0 || snap.Position.Y != 0 || snap.Position.Z != 0 {
		t.Fatalf("did not return home: %+v", snap.Position)
	}
}

func TestDisarmAirborneRejected(t *testing.T) {
	s := New(DefaultConfig())
	ctx := context.Background()

	s.Invoke(ctx, command.CapTakeoff, map[string]float64{"altitude": 10})
	step(s, 5)

	err := s.Invoke(ctx, command.CapDisarm, nil)
	if !errors.Is(err, link.ErrCapabilityError) {
		t.Fatalf("expected ErrCapabilityError, got %v", err)
	}
}

func TestUnknownCapabilityRejected(t *testing.T) {
	s := New(DefaultConfig())

	err := s.Invoke(context.Background(), "self_destruct", nil)
	if !errors.Is(err, link.ErrCapabilityError) {
		t.Fatalf("expected ErrCapabilityError, got %v", err)
	}
}

func TestFaultInjection(t *testing.T) {
	s := New(DefaultConfig())
	ctx := context.Background()

	s.SetBattery(7)
	s.SetObstacle(2.5)

	snap, _ := s.Telemetry(ctx)
	if snap.Battery != 7 {
		t.Fatalf("battery = %v, want 7", snap.Battery)
	}
	if snap.ObstacleDistance != 2.5 {
		t.Fatalf("obstacle = %v, want 2.5", snap.ObstacleDistance)
	}
}
