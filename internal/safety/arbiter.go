package safety

import (
	"fmt"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region arbiter

// Arbiter evaluates telemetry against configured thresholds. It is a
// stateless pure function of its inputs; callers may invoke it
// concurrently and must re-evaluate on every decision.
type Arbiter struct {
	limits Thresholds
}

// NewArbiter creates an arbiter with the given limits.
func NewArbiter(limits Thresholds) *Arbiter {
	return &Arbiter{limits: limits}
}

// Limits returns the configured thresholds.
func (a *Arbiter) Limits() Thresholds {
	return a.limits
}

// #endregion arbiter

// #region corrective

// Corrective reports whether an action is itself safety-corrective
// and therefore exempt from motion blocks.
func Corrective(action string) bool {
	switch action {
	case command.CapLand, command.CapRTL, command.CapHover, command.CapDisarm, command.CapEmergencyStop:
		return true
	}
	return false
}

// #endregion corrective

// #region evaluate

// Evaluate applies the rule list in fixed priority order, first match
// wins. No side effects.
func (a *Arbiter) Evaluate(snap telemetry.Snapshot, ctx Context) Advisory {
	// 1. Emergency stop or imminent collision forces a corrective
	//    action regardless of the requested command.
	if ctx.EmergencyStop {
		return Advisory{
			Kind:      KindForceAction,
			Parameter: "emergency_stop",
			Suggested: command.CapLand,
			Detail:    "emergency stop active: forcing land",
		}
	}
	if a.limits.MinObstacle > 0 && snap.ObstacleDistance > 0 && snap.ObstacleDistance < a.limits.MinObstacle {
		return Advisory{
			Kind:      KindForceAction,
			Parameter: "min_obstacle",
			Suggested: command.CapHover,
			Detail:    fmt.Sprintf("obstacle at %.1fm inside %.1fm floor: forcing hover", snap.ObstacleDistance, a.limits.MinObstacle),
		}
	}

	// 2. Critical battery blocks all motion; only land/rtl proceed.
	if snap.Battery <= a.limits.BatteryCritical {
		return Advisory{
			Kind:      KindBlock,
			Parameter: "battery_critical",
			Suggested: command.CapLand,
			Detail:    fmt.Sprintf("battery %.1f%% at or below critical %.1f%%", snap.Battery, a.limits.BatteryCritical),
		}
	}

	// 3. Geofence: altitude and distance limits, with clamp suggestions.
	if ctx.TargetAltitude > a.limits.MaxAltitude {
		return Advisory{
			Kind:      KindBlock,
			Parameter: "max_altitude",
			Clamp:     a.limits.MaxAltitude,
			Detail:    fmt.Sprintf("target altitude %.1fm exceeds limit %.1fm", ctx.TargetAltitude, a.limits.MaxAltitude),
		}
	}
	if ctx.TargetDistance > a.limits.MaxDistance || ctx.DistanceFromHome > a.limits.MaxDistance {
		d := ctx.TargetDistance
		if ctx.DistanceFromHome > d {
			d = ctx.DistanceFromHome
		}
		return Advisory{
			Kind:      KindBlock,
			Parameter: "max_distance",
			Clamp:     a.limits.MaxDistance,
			Suggested: command.CapRTL,
			Detail:    fmt.Sprintf("distance from home %.1fm exceeds limit %.1fm", d, a.limits.MaxDistance),
		}
	}

	// 4. Environment: warn in cruise, block in sensitive phases.
	if env := a.environment(snap); env != "" {
		kind := KindWarn
		detail := env
		if ctx.Phase.Sensitive() {
			kind = KindBlock
			detail = fmt.Sprintf("%s during %s", env, ctx.Phase)
		}
		return Advisory{
			Kind:      kind,
			Parameter: envParameter(snap, a.limits),
			Detail:    detail,
		}
	}

	// 5. Low battery: proceed with an early-return suggestion.
	if snap.Battery <= a.limits.BatteryLow {
		return Advisory{
			Kind:      KindWarn,
			Parameter: "battery_low",
			Suggested: command.CapRTL,
			Detail:    fmt.Sprintf("battery %.1f%% at or below low %.1f%%", snap.Battery, a.limits.BatteryLow),
		}
	}

	return Advisory{Kind: KindOK}
}

// #endregion evaluate

// #region environment

// environment returns a non-empty detail when any environmental
// threshold is violated.
func (a *Arbiter) environment(snap telemetry.Snapshot) string {
	switch {
	case snap.WindSpeed > a.limits.MaxWind:
		return fmt.Sprintf("wind %.1fm/s exceeds %.1fm/s", snap.WindSpeed, a.limits.MaxWind)
	case snap.Temperature > a.limits.MaxTemperature:
		return fmt.Sprintf("temperature %.1f exceeds %.1f", snap.Temperature, a.limits.MaxTemperature)
	case snap.SignalStrength < a.limits.MinSignal:
		return fmt.Sprintf("signal %.1f%% below %.1f%%", snap.SignalStrength, a.limits.MinSignal)
	}
	return ""
}

func envParameter(snap telemetry.Snapshot, limits Thresholds) string {
	switch {
	case snap.WindSpeed > limits.MaxWind:
		return "max_wind"
	case snap.Temperature > limits.MaxTemperature:
		return "max_temperature"
	default:
		return "min_signal"
	}
}

// #endregion environment
