package decision

import (
	"strings"
	"testing"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

func okSnap() telemetry.Snapshot {
	return telemetry.Snapshot{Battery: 90, SignalStrength: 100}
}

func TestDecide_OKApprovesUnchanged(t *testing.T) {
	m := NewMaker()
	cmd := command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 10, "y": 20, "z": 30}}

	d := m.Decide(cmd, okSnap(), safety.Advisory{Kind: safety.KindOK}, safety.Context{})
	if d.Provenance != Approved {
		t.Fatalf("expected approved, got %s", d.Provenance)
	}
	for k, v := range cmd.Params {
		if d.Params[k] != v {
			t.Errorf("parameter %s changed: %f != %f", k, d.Params[k], v)
		}
	}
}

func TestDecide_UnknownCommandRejected(t *testing.T) {
	m := NewMaker()
	d := m.Decide(command.Command{Name: "teleport"}, okSnap(), safety.Advisory{Kind: safety.KindOK}, safety.Context{})
	if d.Provenance != Rejected {
		t.Fatalf("expected rejected, got %s", d.Provenance)
	}
	if !strings.Contains(d.Reason, "unknown command") {
		t.Errorf("reason should name the unknown command kind, got %q", d.Reason)
	}
}

func TestDecide_BlockRejectsMotion(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindBlock, Parameter: "battery_critical", Detail: "battery 8.0% at or below critical 10.0%"}

	d := m.Decide(command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 1}}, okSnap(), adv, safety.Context{})
	if d.Provenance != Rejected {
		t.Fatalf("expected rejected, got %s", d.Provenance)
	}
	if d.Reason != adv.Detail {
		t.Errorf("rejection reason should carry advisory detail, got %q", d.Reason)
	}
}

func TestDecide_BlockPermitsCorrective(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindBlock, Parameter: "battery_critical", Suggested: command.CapLand}

	d := m.Decide(command.Command{Name: command.CapLand}, okSnap(), adv, safety.Context{})
	if d.Provenance != Approved {
		t.Fatalf("land must proceed under a battery block, got %s", d.Provenance)
	}
}

func TestDecide_AltitudeBlockClampsTakeoff(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindBlock, Parameter: "max_altitude", Clamp: 120, Detail: "target altitude 200.0m exceeds limit 120.0m"}

	d := m.Decide(command.Command{Name: command.CapTakeoff, Params: map[string]float64{"altitude": 200}}, okSnap(), adv, safety.Context{})
	if d.Provenance != Modified {
		t.Fatalf("expected modified, got %s", d.Provenance)
	}
	if d.Params["altitude"] != 120 {
		t.Errorf("expected altitude clamped to 120, got %f", d.Params["altitude"])
	}
}

func TestDecide_ForceActionOverridesRequest(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindForceAction, Suggested: command.CapLand, Detail: "emergency stop active: forcing land"}

	d := m.Decide(command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 100}}, okSnap(), adv, safety.Context{})
	if d.Provenance != Modified {
		t.Fatalf("expected modified, got %s", d.Provenance)
	}
	if d.Action != command.CapLand {
		t.Errorf("expected forced land, got %q", d.Action)
	}
}

func TestDecide_WarnApprovesConfirmedAnnotated(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindWarn, Parameter: "max_wind", Detail: "wind 15.0m/s exceeds 12.0m/s"}

	d := m.Decide(command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 1}, Confirm: true}, okSnap(), adv, safety.Context{})
	if d.Provenance != Approved {
		t.Fatalf("expected approved, got %s", d.Provenance)
	}
	if !strings.Contains(d.Reason, "warning") {
		t.Errorf("warn approval should annotate the reason, got %q", d.Reason)
	}
}

func TestDecide_WarnUnconfirmedRejected(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{Kind: safety.KindWarn, Parameter: "max_wind", Detail: "wind 15.0m/s exceeds 12.0m/s"}

	d := m.Decide(command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 1}}, okSnap(), adv, safety.Context{})
	if d.Provenance != Rejected {
		t.Fatalf("unconfirmed motion under warning must be rejected, got %s", d.Provenance)
	}
	if !strings.Contains(d.Reason, "confirmation") {
		t.Errorf("rejection should ask for confirmation, got %q", d.Reason)
	}

	// Corrective actions never wait for confirmation.
	d = m.Decide(command.Command{Name: command.CapRTL}, okSnap(), adv, safety.Context{})
	if d.Provenance != Approved {
		t.Fatalf("rtl under warning must proceed unconfirmed, got %s", d.Provenance)
	}
}

func TestDecide_DistanceBlockClampsGoto(t *testing.T) {
	m := NewMaker()
	adv := safety.Advisory{
		Kind:      safety.KindBlock,
		Parameter: "max_distance",
		Clamp:     5000,
		Suggested: command.CapRTL,
		Detail:    "distance from home 10000.0m exceeds limit 5000.0m",
	}
	cmd := command.Command{Name: command.CapGoto, Params: map[string]float64{"x": 10000, "y": 0, "z": 0}}

	d := m.Decide(cmd, okSnap(), adv, safety.Context{})
	if d.Provenance != Modified {
		t.Fatalf("expected modified, got %s", d.Provenance)
	}
	if d.Params["x"] != 5000 || d.Params["y"] != 0 {
		t.Errorf("expected target on the 5000m boundary, got (%f, %f)", d.Params["x"], d.Params["y"])
	}

	// Off-origin home: the boundary is anchored to the launch point.
	ctx := safety.Context{Home: telemetry.Position{X: 2000}}
	d = m.Decide(cmd, okSnap(), adv, ctx)
	if d.Provenance != Modified {
		t.Fatalf("expected modified, got %s", d.Provenance)
	}
	if d.Params["x"] != 7000 {
		t.Errorf("expected x = 7000 (home 2000 + limit 5000), got %f", d.Params["x"])
	}
}
