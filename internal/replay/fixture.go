package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Thresholds      *FixtureThresholds      `json:"thresholds,omitempty"`
	Frames          []FixtureFrame          `json:"frames"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results,omitempty"`
}

// FixtureThresholds mirrors safety.Thresholds with JSON tags; nil
// means the default limits.
type FixtureThresholds struct {
	BatteryCritical float64 `json:"battery_critical"`
	BatteryLow      float64 `json:"battery_low"`
	MaxAltitude     float64 `json:"max_altitude"`
	MaxDistance     float64 `json:"max_distance"`
	MaxWind         float64 `json:"max_wind"`
	MinSignal       float64 `json:"min_signal"`
	MaxTemperature  float64 `json:"max_temperature"`
	MinObstacle     float64 `json:"min_obstacle"`
}

// FixtureCommand mirrors command.Command with JSON tags.
type FixtureCommand struct {
	Name    string             `json:"name"`
	Params  map[string]float64 `json:"params,omitempty"`
	Confirm bool               `json:"confirm,omitempty"`
}

// FixtureContext mirrors safety.Context with JSON tags.
type FixtureContext struct {
	Phase            string             `json:"phase"`
	Home             telemetry.Position `json:"home"`
	DistanceFromHome float64            `json:"distance_from_home"`
	TargetAltitude   float64            `json:"target_altitude"`
	TargetDistance   float64            `json:"target_distance"`
	EmergencyStop    bool               `json:"emergency_stop"`
}

// FixtureFrame mirrors replay.Frame with JSON tags.
type FixtureFrame struct {
	FrameID  string             `json:"frame_id"`
	Snapshot telemetry.Snapshot `json:"snapshot"`
	Command  FixtureCommand     `json:"command"`
	Context  FixtureContext     `json:"context"`
}

// FixtureExpectedResult captures the expected provenance per frame.
type FixtureExpectedResult struct {
	FrameID    string `json:"frame_id"`
	Provenance string `json:"provenance"`
	Action     string `json:"action,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToThresholds converts fixture limits to domain thresholds.
func (t FixtureThresholds) ToThresholds() safety.Thresholds {
	return safety.Thresholds{
		BatteryCritical: t.BatteryCritical,
		BatteryLow:      t.BatteryLow,
		MaxAltitude:     t.MaxAltitude,
		MaxDistance:     t.MaxDistance,
		MaxWind:         t.MaxWind,
		MinSignal:       t.MinSignal,
		MaxTemperature:  t.MaxTemperature,
		MinObstacle:     t.MinObstacle,
	}
}

// Limits returns the fixture's thresholds, or the defaults when the
// fixture leaves them unset.
func (f *Fixture) Limits() safety.Thresholds {
	if f.Thresholds == nil {
		return safety.DefaultThresholds()
	}
	return f.Thresholds.ToThresholds()
}

// ToFrame converts a FixtureFrame to a domain Frame.
func (ff *FixtureFrame) ToFrame() Frame {
	return Frame{
		FrameID:  ff.FrameID,
		Snapshot: ff.Snapshot,
		Command: command.Command{
			Name:    ff.Command.Name,
			Params:  ff.Command.Params,
			Confirm: ff.Command.Confirm,
		},
		Context: safety.Context{
			Phase:            safety.Phase(ff.Context.Phase),
			Home:             ff.Context.Home,
			DistanceFromHome: ff.Context.DistanceFromHome,
			TargetAltitude:   ff.Context.TargetAltitude,
			TargetDistance:   ff.Context.TargetDistance,
			EmergencyStop:    ff.Context.EmergencyStop,
		},
	}
}

// Domain converts all fixture frames.
func (f *Fixture) Domain() []Frame {
	frames := make([]Frame, len(f.Frames))
	for i := range f.Frames {
		frames[i] = f.Frames[i].ToFrame()
	}
	return frames
}

// #endregion fixture-loader
