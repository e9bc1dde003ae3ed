package mission

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/decision"
	"github.com/coba-ai/drone-agent/internal/learning"
	"github.com/coba-ai/drone-agent/internal/link"
	"github.com/coba-ai/drone-agent/internal/memory"
	"github.com/coba-ai/drone-agent/internal/report"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region config

// Config wires the executor's collaborators.
type Config struct {
	Vehicle  link.Vehicle
	Arbiter  *safety.Arbiter
	Maker    *decision.Maker
	Policy   *learning.Policy
	Rewards  learning.RewardConfig
	Short    *memory.ShortTerm
	Long     *memory.LongTerm // nil = volatile only
	Reporter report.Reporter

	PollInterval time.Duration // arrival-confirmation poll cadence
	TrainBatch   int
}

// DefaultConfig fills the executor knobs; collaborators stay nil.
func DefaultConfig() Config {
	return Config{
		Rewards:      learning.DefaultRewardConfig(),
		PollInterval: 250 * time.Millisecond,
		TrainBatch:   16,
	}
}

// #endregion config

// #region step-result

type stepResult int

const (
	stepArrived stepResult = iota
	stepPaused
	stepTimeout
	stepStopped
	stepBatteryDead
	stepRejected
	stepExhausted
)

// stepOutcome carries one waypoint attempt's result plus the
// snapshots needed for experience logging.
type stepOutcome struct {
	result    stepResult
	adv       safety.Advisory
	startSnap telemetry.Snapshot
	snap      telemetry.Snapshot
}

// #endregion step-result

// #region executor

// Executor runs one mission to a terminal status. One logical task
// per mission; Pause/Resume/Abort/EmergencyStop may be called from
// any goroutine.
type Executor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	id     string
	spec   Spec
	config Config

	status      Status
	index       int
	events      []report.Event
	abortReason string
	estop       bool
	cancel      context.CancelFunc
	startedAt   time.Time

	home       telemetry.Position
	minBattery float64
	maxWind    float64
}

// NewExecutor creates a PENDING executor for the given spec.
func NewExecutor(spec Spec, config Config) *Executor {
	spec.Defaults()
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 250 * time.Millisecond
	}
	if config.TrainBatch <= 0 {
		config.TrainBatch = 16
	}
	e := &Executor{
		id:         spec.ID,
		spec:       spec,
		config:     config,
		status:     StatusPending,
		minBattery: 100,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// ID returns the mission id.
func (e *Executor) ID() string { return e.id }

// Status returns the current state machine position.
func (e *Executor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Index returns the current waypoint index; equals len(waypoints)
// after completion.
func (e *Executor) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Events returns a copy of the mission timeline so far.
func (e *Executor) Events() []report.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]report.Event, len(e.events))
	copy(out, e.events)
	return out
}

// #endregion executor

// #region operator-controls

// Pause holds the mission: the vehicle hovers and the run loop waits
// at the current waypoint index. Idempotent; only RUNNING pauses.
func (e *Executor) Pause() {
	e.mu.Lock()
	if e.status != StatusRunning {
		e.mu.Unlock()
		return
	}
	e.status = StatusPaused
	e.mu.Unlock()

	e.emit("status", "mission paused: holding position")
	ctx, cancel := context.WithTimeout(context.Background(), link.DefaultInvokeTimeout)
	defer cancel()
	if err := e.config.Vehicle.Invoke(ctx, command.CapHover, nil); err != nil {
		log.Printf("[MISSION] %s: hover on pause failed: %v", e.id, err)
	}
}

// Resume continues a paused mission at the same waypoint index.
func (e *Executor) Resume() {
	e.mu.Lock()
	if e.status != StatusPaused {
		e.mu.Unlock()
		return
	}
	e.status = StatusRunning
	e.cond.Broadcast()
	e.mu.Unlock()

	e.emit("status", "mission resumed")
}

// Abort requests termination; the run loop lands the vehicle and
// marks the mission ABORTED.
func (e *Executor) Abort(reason string) {
	e.mu.Lock()
	if e.status.Terminal() || e.abortReason != "" {
		e.mu.Unlock()
		return
	}
	e.abortReason = reason
	if e.cancel != nil {
		e.cancel()
	}
	e.cond.Broadcast()
	e.mu.Unlock()

	e.emit("abort", reason)
}

// EmergencyStop short-circuits every in-progress wait immediately.
// The run loop issues a land before marking the mission ABORTED.
func (e *Executor) EmergencyStop() {
	e.mu.Lock()
	if e.status.Terminal() {
		e.mu.Unlock()
		return
	}
	alreadySignalled := e.estop
	e.estop = true
	if e.abortReason == "" {
		e.abortReason = "emergency stop"
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.cond.Broadcast()
	e.mu.Unlock()

	if !alreadySignalled {
		e.emit("emergency_stop", "emergency stop signalled")
	}
}

// #endregion operator-controls

// #region run-loop

// Start runs the mission to a terminal status and delivers the final
// report. It blocks; callers wanting asynchrony run it in their own
// goroutine. Returns ErrNoWaypoints without leaving PENDING when the
// route is empty.
func (e *Executor) Start(ctx context.Context) (report.Report, error) {
	if len(e.spec.Waypoints) == 0 {
		return report.Report{}, ErrNoWaypoints
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.status != StatusPending {
		e.mu.Unlock()
		return report.Report{}, fmt.Errorf("mission %s already %s", e.id, e.status)
	}
	e.cancel = cancel
	e.startedAt = time.Now()
	e.status = StatusRunning
	e.mu.Unlock()
	e.emit("status", fmt.Sprintf("mission started: %d waypoints", len(e.spec.Waypoints)))

	final := StatusCompleted
	failureIdx := -1
	var lastSnap telemetry.Snapshot

loop:
	for e.Index() < len(e.spec.Waypoints) {
		if !e.waitIfPaused() {
			final = StatusAborted
			break
		}

		idx := e.Index()
		out := e.flyWaypoint(runCtx, idx)
		if out.snap != (telemetry.Snapshot{}) {
			lastSnap = out.snap
		}

		switch out.result {
		case stepArrived:
			e.recordArrival(idx, out)
			e.runWaypointAction(runCtx, idx, out.snap)
			e.advance()
		case stepStopped:
			final = StatusAborted
			break loop
		case stepRejected, stepBatteryDead:
			e.recordTerminalFailure(idx, out)
			final = StatusFailed
			failureIdx = idx
			break loop
		case stepExhausted:
			e.emit("failure", fmt.Sprintf("waypoint %d: retries exhausted", idx))
			final = StatusFailed
			failureIdx = idx
			break loop
		}
	}

	if final == StatusAborted {
		failureIdx = e.Index()
		e.correctiveStop()
	}

	e.mu.Lock()
	e.status = final
	reason := e.abortReason
	e.mu.Unlock()
	e.emit("status", fmt.Sprintf("mission %s", final))

	rep := e.buildReport(final, failureIdx, lastSnap)
	if e.config.Reporter != nil {
		if err := e.config.Reporter.Deliver(rep); err != nil {
			log.Printf("[MISSION] %s: report delivery failed: %v", e.id, err)
		}
	}

	if final == StatusAborted {
		return rep, fmt.Errorf("%w: %s", ErrAbortedExternally, reason)
	}
	return rep, nil
}

// waitIfPaused blocks while the mission is paused. Returns false when
// an abort or emergency stop arrived instead of a resume.
func (e *Executor) waitIfPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.status == StatusPaused && e.abortReason == "" {
		e.cond.Wait()
	}
	return e.abortReason == ""
}

func (e *Executor) stopRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.abortReason != ""
}

func (e *Executor) estopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estop
}

func (e *Executor) pausedNow() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status == StatusPaused
}

func (e *Executor) advance() {
	e.mu.Lock()
	e.index++
	e.mu.Unlock()
}

// #endregion run-loop

// #region waypoint

// flyWaypoint drives one waypoint through decide → invoke → confirm,
// retrying on timeout or capability error up to the configured budget.
func (e *Executor) flyWaypoint(ctx context.Context, idx int) stepOutcome {
	wp := e.spec.Waypoints[idx]
	target := telemetry.Position{X: wp.X, Y: wp.Y, Z: wp.Z}

	for attempt := 0; attempt <= e.spec.MaxRetries; attempt++ {
		if e.stopRequested() {
			return stepOutcome{result: stepStopped}
		}

		snap, err := e.config.Vehicle.Telemetry(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return stepOutcome{result: stepStopped}
			}
			e.emit("retry", fmt.Sprintf("waypoint %d: telemetry read failed: %v", idx, err))
			continue
		}
		e.observeEnv(snap)

		// Mission start is the operator's confirmation for every
		// command the route generates.
		cmd := command.Command{
			Name:    command.CapGoto,
			Params:  map[string]float64{"x": wp.X, "y": wp.Y, "z": wp.Z},
			Confirm: true,
		}
		if speed := wp.Speed; speed <= 0 {
			speed = e.spec.Speed
			if speed > 0 {
				cmd.Params["speed"] = speed
			}
		} else {
			cmd.Params["speed"] = speed
		}

		sctx := safety.Context{
			Phase:            safety.PhaseCruise,
			Home:             e.home,
			DistanceFromHome: telemetry.Distance(e.home, snap.Position),
			TargetAltitude:   wp.Z,
			TargetDistance:   telemetry.Distance(e.home, target),
			EmergencyStop:    e.estopped(),
		}
		adv := e.config.Arbiter.Evaluate(snap, sctx)
		dec := e.config.Maker.Decide(cmd, snap, adv, sctx)
		e.recordDecision(idx, dec, adv)

		if !dec.Actionable() {
			return stepOutcome{result: stepRejected, adv: adv, startSnap: snap, snap: snap}
		}

		// A pause arriving between decide and invoke must win: the
		// hover issued by Pause would otherwise be overridden by the
		// decided motion.
		if e.pausedNow() {
			attempt--
			if !e.waitIfPaused() {
				return stepOutcome{result: stepStopped, snap: snap}
			}
			continue
		}

		if err := e.config.Vehicle.Invoke(ctx, dec.Action, dec.Params); err != nil {
			if ctx.Err() != nil {
				return stepOutcome{result: stepStopped, snap: snap}
			}
			e.emit("retry", fmt.Sprintf("waypoint %d: %v (attempt %d)", idx, err, attempt+1))
			continue
		}

		if dec.Action != command.CapGoto {
			// Forced corrective substitution (e.g. hover near an
			// obstacle); re-evaluate conditions on the next attempt.
			e.emit("corrective", fmt.Sprintf("waypoint %d: executed %s instead of goto", idx, dec.Action))
			continue
		}

		out := e.awaitArrival(ctx, target)
		switch out.result {
		case stepArrived:
			out.startSnap = snap
			out.adv = adv
			return out
		case stepPaused:
			// A pause holds position; it does not consume the
			// retry budget for this waypoint.
			attempt--
			if !e.waitIfPaused() {
				return stepOutcome{result: stepStopped, snap: out.snap}
			}
		case stepStopped, stepBatteryDead:
			out.startSnap = snap
			return out
		case stepTimeout:
			e.emit("retry", fmt.Sprintf("waypoint %d: no arrival within %s (attempt %d)", idx, e.spec.StepTimeout(), attempt+1))
		}
	}
	return stepOutcome{result: stepExhausted}
}

// awaitArrival polls telemetry until the vehicle is within tolerance
// of the target, the step deadline passes, or a stop signal cancels
// the wait.
func (e *Executor) awaitArrival(ctx context.Context, target telemetry.Position) stepOutcome {
	deadline := time.Now().Add(e.spec.StepTimeout())
	ticker := time.NewTicker(e.config.PollInterval)
	defer ticker.Stop()

	var last telemetry.Snapshot
	for {
		select {
		case <-ctx.Done():
			return stepOutcome{result: stepStopped, snap: last}
		case <-ticker.C:
		}

		if e.pausedNow() {
			return stepOutcome{result: stepPaused, snap: last}
		}

		snap, err := e.config.Vehicle.Telemetry(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return stepOutcome{result: stepStopped, snap: last}
			}
		} else {
			last = snap
			e.observeEnv(snap)
			if snap.Battery <= 0 {
				return stepOutcome{result: stepBatteryDead, snap: snap}
			}
			if telemetry.Distance(snap.Position, target) <= e.spec.Tolerance {
				return stepOutcome{result: stepArrived, snap: snap}
			}
		}

		if time.Now().After(deadline) {
			return stepOutcome{result: stepTimeout, snap: last}
		}
	}
}

// runWaypointAction executes the optional capability attached to a
// waypoint after arrival is confirmed. The action is auxiliary: a
// rejection or capability error is recorded but never fails the
// mission.
func (e *Executor) runWaypointAction(ctx context.Context, idx int, snap telemetry.Snapshot) {
	wp := e.spec.Waypoints[idx]
	if wp.Action == "" || wp.Action == command.CapGoto {
		return
	}

	cmd := command.Command{Name: wp.Action, Confirm: true}
	phase := safety.PhaseCruise
	switch wp.Action {
	case command.CapTakeoff:
		phase = safety.PhaseTakeoff
	case command.CapLand:
		phase = safety.PhaseLanding
	}
	sctx := safety.Context{
		Phase:            phase,
		Home:             e.home,
		DistanceFromHome: telemetry.Distance(e.home, snap.Position),
		TargetAltitude:   snap.Position.Z,
		EmergencyStop:    e.estopped(),
	}
	adv := e.config.Arbiter.Evaluate(snap, sctx)
	dec := e.config.Maker.Decide(cmd, snap, adv, sctx)
	e.recordDecision(idx, dec, adv)

	if !dec.Actionable() {
		e.emit("action", fmt.Sprintf("waypoint %d: action %s rejected: %s", idx, wp.Action, dec.Reason))
		return
	}
	if err := e.config.Vehicle.Invoke(ctx, dec.Action, dec.Params); err != nil {
		e.emit("action", fmt.Sprintf("waypoint %d: action %s failed: %v", idx, dec.Action, err))
		return
	}
	e.emit("action", fmt.Sprintf("waypoint %d: executed %s", idx, dec.Action))
}

// correctiveStop lands the vehicle before the mission is marked
// ABORTED. The run context is already cancelled here, so the call
// runs on its own bounded context.
func (e *Executor) correctiveStop() {
	ctx, cancel := context.WithTimeout(context.Background(), link.DefaultInvokeTimeout)
	defer cancel()
	if err := e.config.Vehicle.Invoke(ctx, command.CapLand, nil); err != nil {
		log.Printf("[MISSION] %s: corrective land failed: %v", e.id, err)
	} else {
		e.emit("corrective", "landing before abort")
	}
}

// #endregion waypoint

// #region learning-hooks

// recordArrival logs the completed step: one experience, one decay
// tick, one training step.
func (e *Executor) recordArrival(idx int, out stepOutcome) {
	total := len(e.spec.Waypoints)
	last := idx+1 == total
	e.emit("waypoint", fmt.Sprintf("reached waypoint %d of %d", idx+1, total))

	reward := e.config.Rewards.Reward(learning.StepOutcome{
		WaypointReached: true,
		MissionComplete: last,
	})
	e.logExperience(out, reward, idx, last)

	if e.config.Policy != nil {
		e.config.Policy.StepDecay()
		e.config.Policy.TrainStep(e.config.TrainBatch)
	}
}

// recordTerminalFailure logs the failing step as a terminal
// experience with the matching penalty.
func (e *Executor) recordTerminalFailure(idx int, out stepOutcome) {
	o := learning.StepOutcome{SafetyViolation: true}
	if out.result == stepBatteryDead || out.adv.Parameter == "battery_critical" {
		o = learning.StepOutcome{BatteryExhausted: true}
	}
	detail := out.adv.Detail
	if detail == "" {
		detail = "battery exhausted"
	}
	e.emit("failure", fmt.Sprintf("waypoint %d: %s", idx, detail))
	e.logExperience(out, e.config.Rewards.Reward(o), idx, true)
}

func (e *Executor) logExperience(out stepOutcome, reward float64, idx int, terminal bool) {
	total := float32(len(e.spec.Waypoints))
	state := telemetry.Features(out.startSnap, float32(idx)/total)
	next := telemetry.Features(out.snap, float32(idx+1)/total)

	exp := learning.Experience{
		State:     state,
		Action:    command.CapGoto,
		Reward:    reward,
		NextState: next,
		Terminal:  terminal,
	}
	if e.config.Policy != nil {
		if err := e.config.Policy.Observe(exp); err != nil {
			return
		}
	}
	if e.config.Long != nil {
		stateJSON, _ := json.Marshal(state)
		nextJSON, _ := json.Marshal(next)
		row := memory.ExperienceRow{
			MissionID: e.id,
			Context:   string(safety.PhaseCruise),
			Action:    command.CapGoto,
			Reward:    reward,
			StateJSON: string(stateJSON),
			NextJSON:  string(nextJSON),
			Terminal:  terminal,
		}
		if err := e.config.Long.StoreExperience(row); err != nil {
			log.Printf("[MISSION] %s: store experience failed: %v", e.id, err)
		}
	}
}

// #endregion learning-hooks

// #region memory-hooks

// emit appends a timeline event and mirrors it into both memory
// horizons.
func (e *Executor) emit(kind, detail string) {
	ev := report.Event{Timestamp: time.Now(), Kind: kind, Detail: detail}
	e.mu.Lock()
	e.events = append(e.events, ev)
	e.mu.Unlock()

	log.Printf("[MISSION] %s: %s: %s", e.id, kind, detail)
	entry := memory.Entry{
		Kind:      memory.KindEvent,
		Text:      detail,
		Tags:      []string{"mission", kind},
		MissionID: e.id,
	}
	if e.config.Short != nil {
		e.config.Short.Record(entry)
	}
	if e.config.Long != nil {
		if err := e.config.Long.Store(entry); err != nil {
			log.Printf("[MISSION] %s: store event failed: %v", e.id, err)
		}
	}
}

// recordDecision mirrors each arbitrated command into memory, one
// record per decision.
func (e *Executor) recordDecision(idx int, dec decision.Decision, adv safety.Advisory) {
	entry := memory.Entry{
		Kind:      memory.KindDecision,
		Text:      fmt.Sprintf("waypoint %d: %s %s: %s", idx, dec.Action, dec.Provenance, dec.Reason),
		Tags:      []string{"decision", string(dec.Provenance), string(adv.Kind)},
		MissionID: e.id,
	}
	if e.config.Short != nil {
		e.config.Short.Record(entry)
	}
	if e.config.Long != nil {
		if err := e.config.Long.Store(entry); err != nil {
			log.Printf("[MISSION] %s: store decision failed: %v", e.id, err)
		}
	}
}

func (e *Executor) observeEnv(snap telemetry.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if snap.Battery < e.minBattery {
		e.minBattery = snap.Battery
	}
	if snap.WindSpeed > e.maxWind {
		e.maxWind = snap.WindSpeed
	}
}

// #endregion memory-hooks

// #region report

func (e *Executor) buildReport(final Status, failureIdx int, lastSnap telemetry.Snapshot) report.Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	rep := report.Report{
		MissionID:          e.id,
		MissionName:        e.spec.Name,
		Status:             string(final),
		StartedAt:          e.startedAt,
		FinishedAt:         now,
		DurationSeconds:    now.Sub(e.startedAt).Seconds(),
		WaypointsCompleted: e.index,
		WaypointsTotal:     len(e.spec.Waypoints),
		MinBattery:         e.minBattery,
		MaxWindSpeed:       e.maxWind,
		Events:             append([]report.Event(nil), e.events...),
	}
	if final == StatusFailed || final == StatusAborted {
		rep.FailureWaypoint = failureIdx
		snap := lastSnap
		rep.LastTelemetry = &snap
	}
	return rep
}

// #endregion report
