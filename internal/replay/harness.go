// Package replay runs recorded decision traces back through the
// safety and decision pipeline, entirely in-memory, so rule changes
// can be checked against real flights deterministically.
package replay

import (
	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/decision"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region types

// Frame is one recorded decision point: the telemetry at that moment,
// the requested command, and the mission-side safety context.
type Frame struct {
	FrameID  string
	Snapshot telemetry.Snapshot
	Command  command.Command
	Context  safety.Context
}

// Result captures the outcome of replaying one frame.
type Result struct {
	FrameID    string
	Advisory   safety.Advisory
	Decision   decision.Decision
	Action     string // final action, empty when rejected
	Provenance decision.Provenance
}

// Summary aggregates a replay run by outcome and by the safety rule
// that fired.
type Summary struct {
	TotalFrames int
	Approved    int
	Modified    int
	Rejected    int
	ByParameter map[string]int // advisory parameter → frames it fired on
}

// #endregion types

// #region replay

// Replay pushes every frame through arbiter then maker. Pure: no
// vehicle, no memory, no side effects.
func Replay(frames []Frame, arbiter *safety.Arbiter, maker *decision.Maker) []Result {
	results := make([]Result, 0, len(frames))
	for _, f := range frames {
		adv := arbiter.Evaluate(f.Snapshot, f.Context)
		dec := maker.Decide(f.Command, f.Snapshot, adv, f.Context)

		r := Result{
			FrameID:    f.FrameID,
			Advisory:   adv,
			Decision:   dec,
			Provenance: dec.Provenance,
		}
		if dec.Actionable() {
			r.Action = dec.Action
		}
		results = append(results, r)
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalFrames: len(results),
		ByParameter: make(map[string]int),
	}
	for _, r := range results {
		switch r.Provenance {
		case decision.Approved:
			s.Approved++
		case decision.Modified:
			s.Modified++
		case decision.Rejected:
			s.Rejected++
		}
		if r.Advisory.Parameter != "" {
			s.ByParameter[r.Advisory.Parameter]++
		}
	}
	return s
}

// #endregion replay
