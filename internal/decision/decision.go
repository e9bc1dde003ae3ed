package decision

import (
	"fmt"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region provenance

// Provenance records how the final action relates to the request.
type Provenance string

const (
	Approved Provenance = "approved"
	Modified Provenance = "modified"
	Rejected Provenance = "rejected"
)

// #endregion provenance

// #region decision

// Decision is the arbitrated result for a single command.
type Decision struct {
	Action     string
	Params     map[string]float64
	Provenance Provenance
	Reason     string
}

// Actionable reports whether the decision should reach the vehicle.
func (d Decision) Actionable() bool {
	return d.Provenance != Rejected
}

// #endregion decision

// #region maker

// Maker arbitrates requested commands against safety advisories.
// Stateless; safe for concurrent use from multiple callers.
type Maker struct{}

// NewMaker creates a decision maker.
func NewMaker() *Maker {
	return &Maker{}
}

// Decide applies the rule list in order:
//  1. unknown command names are rejected outright
//  2. a forced action replaces the request (provenance modified)
//  3. a block rejects non-corrective commands, clamping limit
//     violations where the parameter allows it
//  4. a warning approves with the advisory annotated; non-corrective
//     commands need the confirmation flag to proceed
//  5. otherwise approve as requested
func (m *Maker) Decide(cmd command.Command, snap telemetry.Snapshot, adv safety.Advisory, ctx safety.Context) Decision {
	if !command.Known(cmd.Name) {
		return Decision{
			Action:     cmd.Name,
			Provenance: Rejected,
			Reason:     fmt.Sprintf("%v: %q", command.ErrUnknownCommand, cmd.Name),
		}
	}

	switch adv.Kind {
	case safety.KindForceAction:
		return Decision{
			Action:     adv.Suggested,
			Params:     map[string]float64{},
			Provenance: Modified,
			Reason:     adv.Detail,
		}

	case safety.KindBlock:
		if safety.Corrective(cmd.Name) {
			return Decision{
				Action:     cmd.Name,
				Params:     cmd.Params,
				Provenance: Approved,
				Reason:     fmt.Sprintf("corrective action permitted: %s", adv.Detail),
			}
		}
		if clamped, ok := clamp(cmd, snap, adv, ctx); ok {
			return clamped
		}
		return Decision{
			Action:     cmd.Name,
			Provenance: Rejected,
			Reason:     adv.Detail,
		}

	case safety.KindWarn:
		if !cmd.Confirm && !safety.Corrective(cmd.Name) {
			return Decision{
				Action:     cmd.Name,
				Provenance: Rejected,
				Reason:     fmt.Sprintf("confirmation required: %s", adv.Detail),
			}
		}
		return Decision{
			Action:     cmd.Name,
			Params:     cmd.Params,
			Provenance: Approved,
			Reason:     fmt.Sprintf("proceeding with warning: %s", adv.Detail),
		}
	}

	return Decision{
		Action:     cmd.Name,
		Params:     cmd.Params,
		Provenance: Approved,
		Reason:     "within limits",
	}
}

// #endregion maker

// #region clamp

// clamp rewrites an altitude- or distance-violating command down to
// the advised limit instead of rejecting it.
func clamp(cmd command.Command, snap telemetry.Snapshot, adv safety.Advisory, ctx safety.Context) (Decision, bool) {
	if adv.Clamp <= 0 {
		return Decision{}, false
	}

	params := make(map[string]float64, len(cmd.Params))
	for k, v := range cmd.Params {
		params[k] = v
	}

	switch {
	case adv.Parameter == "max_altitude" && cmd.Name == command.CapTakeoff:
		params["altitude"] = adv.Clamp
	case adv.Parameter == "max_altitude" && cmd.Name == command.CapGoto:
		params["z"] = adv.Clamp
	case adv.Parameter == "max_distance" && cmd.Name == command.CapGoto:
		// Pull the target back onto the boundary along the line from
		// home, keeping the heading of the request.
		target := telemetry.Position{
			X: cmd.Param("x", snap.Position.X),
			Y: cmd.Param("y", snap.Position.Y),
			Z: cmd.Param("z", snap.Position.Z),
		}
		d := telemetry.Distance(ctx.Home, target)
		if d <= adv.Clamp {
			return Decision{}, false
		}
		scale := adv.Clamp / d
		params["x"] = ctx.Home.X + (target.X-ctx.Home.X)*scale
		params["y"] = ctx.Home.Y + (target.Y-ctx.Home.Y)*scale
		params["z"] = ctx.Home.Z + (target.Z-ctx.Home.Z)*scale
	default:
		return Decision{}, false
	}

	return Decision{
		Action:     cmd.Name,
		Params:     params,
		Provenance: Modified,
		Reason:     fmt.Sprintf("clamped to limit: %s", adv.Detail),
	}, true
}

// #endregion clamp
