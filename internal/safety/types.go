package safety

import "github.com/coba-ai/drone-agent/internal/telemetry"

// #region kind

// Kind classifies an advisory from least to most binding.
type Kind string

const (
	KindOK          Kind = "ok"
	KindWarn        Kind = "warn"
	KindBlock       Kind = "block"
	KindForceAction Kind = "force_action"
)

// #endregion kind

// #region advisory

// Advisory is produced fresh on every evaluation and never cached
// across snapshots.
type Advisory struct {
	Kind      Kind
	Parameter string  // threshold that fired, empty for OK
	Suggested string  // corrective capability, empty if none
	Clamp     float64 // suggested clamp value for limit violations
	Detail    string  // display-ready reason
}

// #endregion advisory

// #region phase

// Phase is the flight phase used to tighten environmental rules.
type Phase string

const (
	PhaseGround  Phase = "ground"
	PhaseTakeoff Phase = "takeoff"
	PhaseCruise  Phase = "cruise"
	PhaseLanding Phase = "landing"
)

// Sensitive reports whether environmental warnings escalate to blocks.
func (p Phase) Sensitive() bool {
	return p == PhaseTakeoff || p == PhaseLanding
}

// #endregion phase

// #region context

// Context carries the mission-side inputs to an evaluation.
type Context struct {
	Phase            Phase
	Home             telemetry.Position // launch point distance limits are anchored to
	DistanceFromHome float64
	TargetAltitude   float64 // requested altitude, 0 if not altitude-bearing
	TargetDistance   float64 // distance-from-home of the requested target
	EmergencyStop    bool    // external emergency-stop condition active
}

// #endregion context

// #region thresholds

// Thresholds holds the numeric limits supplied at construction.
type Thresholds struct {
	BatteryCritical float64
	BatteryLow      float64
	MaxAltitude     float64
	MaxDistance     float64
	MaxWind         float64
	MinSignal       float64
	MaxTemperature  float64
	MinObstacle     float64 // below this, treat as imminent collision
}

// DefaultThresholds returns conservative flight limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BatteryCritical: 10,
		BatteryLow:      25,
		MaxAltitude:     120,
		MaxDistance:     5000,
		MaxWind:         12,
		MinSignal:       20,
		MaxTemperature:  60,
		MinObstacle:     5,
	}
}

// #endregion thresholds
