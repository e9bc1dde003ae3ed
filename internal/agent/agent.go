// Package agent wires the full decision-and-control stack for one
// vehicle: telemetry monitor, command processing, mission execution,
// memory, and the learning policy.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/decision"
	"github.com/coba-ai/drone-agent/internal/learning"
	"github.com/coba-ai/drone-agent/internal/link"
	"github.com/coba-ai/drone-agent/internal/memory"
	"github.com/coba-ai/drone-agent/internal/mission"
	"github.com/coba-ai/drone-agent/internal/persist"
	"github.com/coba-ai/drone-agent/internal/report"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region config

// policyCheckpoint is the persist key for the learning state.
const policyCheckpoint = "policy"

// Config tunes the agent. Collaborator wiring happens in New.
type Config struct {
	Thresholds      safety.Thresholds
	Policy          learning.PolicyConfig
	Rewards         learning.RewardConfig
	ShortTermSize   int
	MonitorInterval time.Duration
	MissionPoll     time.Duration
	TrainBatch      int
	ReportsDir      string // empty = log-only reports
}

// DefaultConfig returns a conservatively tuned agent.
func DefaultConfig() Config {
	return Config{
		Thresholds:      safety.DefaultThresholds(),
		Policy:          learning.DefaultPolicyConfig(),
		Rewards:         learning.DefaultRewardConfig(),
		ShortTermSize:   256,
		MonitorInterval: time.Second,
		MissionPoll:     250 * time.Millisecond,
		TrainBatch:      16,
	}
}

// #endregion config

// #region outcome

// Outcome is the structured result of one processed command.
// Rejections are outcomes, not errors; only infrastructure failures
// (link, storage) surface as errors.
type Outcome struct {
	Command  command.Command
	Decision decision.Decision
	Executed bool
	Queued   bool
	Reason   string
}

// #endregion outcome

// #region agent

// Agent owns the per-vehicle stack. One instance per vehicle; nothing
// here is a process-wide singleton.
type Agent struct {
	config   Config
	vehicle  link.Vehicle
	holder   *telemetry.Holder
	arbiter  *safety.Arbiter
	maker    *decision.Maker
	policy   *learning.Policy
	short    *memory.ShortTerm
	long     *memory.LongTerm
	store    *persist.Store
	interp   command.Interpreter
	reporter report.Reporter

	mu      sync.Mutex
	exec    *mission.Executor
	execErr error
	done    chan struct{}
	pending []command.Command
	estop   bool

	monitorCancel context.CancelFunc
	monitorDone   chan struct{}
}

// New wires an agent over the given vehicle and store. The learning
// policy is restored from its last checkpoint and warm-started from
// historical action quality when either exists.
func New(config Config, vehicle link.Vehicle, store *persist.Store, interp command.Interpreter) (*Agent, error) {
	long, err := memory.NewLongTerm(store.DB())
	if err != nil {
		return nil, fmt.Errorf("long-term memory: %w", err)
	}

	policy := learning.NewPolicy(config.Policy)
	if blob, ok, err := store.LoadCheckpoint(policyCheckpoint); err != nil {
		return nil, fmt.Errorf("load policy checkpoint: %w", err)
	} else if ok {
		if err := policy.Restore(blob); err != nil {
			log.Printf("[AGENT] policy checkpoint unreadable, starting fresh: %v", err)
		} else {
			log.Printf("[AGENT] policy restored: epsilon=%.3f updates=%d", policy.Epsilon(), policy.Updates())
		}
	}
	if quality, err := long.ActionQuality(string(safety.PhaseCruise)); err == nil && len(quality) > 0 {
		policy.SeedQuality(quality)
		log.Printf("[AGENT] policy warm-started from %d historical actions", len(quality))
	}

	var reporter report.Reporter = report.LogReporter{}
	if config.ReportsDir != "" {
		reporter = report.FileReporter{Dir: config.ReportsDir}
	}

	return &Agent{
		config:   config,
		vehicle:  vehicle,
		holder:   telemetry.NewHolder(telemetry.Snapshot{}),
		arbiter:  safety.NewArbiter(config.Thresholds),
		maker:    decision.NewMaker(),
		policy:   policy,
		short:    memory.NewShortTerm(config.ShortTermSize),
		long:     long,
		store:    store,
		interp:   interp,
		reporter: reporter,
	}, nil
}

// Memory exposes the long-term store for inspection tooling.
func (a *Agent) Memory() *memory.LongTerm { return a.long }

// Recent returns the newest short-term entries.
func (a *Agent) Recent(n int) []memory.Entry { return a.short.Recent(n) }

// Policy exposes the learning policy.
func (a *Agent) Policy() *learning.Policy { return a.policy }

// #endregion agent

// #region lifecycle

// Start seeds the telemetry holder and launches the monitor loop.
func (a *Agent) Start(ctx context.Context) error {
	snap, err := a.vehicle.Telemetry(ctx)
	if err != nil {
		return fmt.Errorf("initial telemetry: %w", err)
	}
	a.holder.Set(snap)

	monCtx, cancel := context.WithCancel(context.Background())
	a.monitorCancel = cancel
	a.monitorDone = make(chan struct{})
	go a.monitor(monCtx)
	return nil
}

// Close stops the monitor and checkpoints the learning policy. The
// store stays open; the caller owns it.
func (a *Agent) Close() error {
	if a.monitorCancel != nil {
		a.monitorCancel()
		<-a.monitorDone
	}
	blob, err := a.policy.Checkpoint()
	if err != nil {
		return fmt.Errorf("checkpoint policy: %w", err)
	}
	if err := a.store.SaveCheckpoint(policyCheckpoint, blob); err != nil {
		return fmt.Errorf("save policy checkpoint: %w", err)
	}
	return nil
}

// monitor polls the link into the holder and records periodic
// snapshots to short-term memory.
func (a *Agent) monitor(ctx context.Context) {
	defer close(a.monitorDone)
	ticker := time.NewTicker(a.config.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		snap, err := a.vehicle.Telemetry(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[AGENT] telemetry poll failed: %v", err)
			}
			continue
		}
		a.holder.Set(snap)
		a.short.Record(memory.Entry{
			Kind: memory.KindEvent,
			Text: fmt.Sprintf("telemetry: pos=(%.1f,%.1f,%.1f) battery=%.1f%%", snap.Position.X, snap.Position.Y, snap.Position.Z, snap.Battery),
			Tags: []string{"telemetry"},
		})
	}
}

// #endregion lifecycle

// #region command-processing

// ProcessText interprets free text and processes the result. Text
// that resolves to no command is an UnknownCommand outcome.
func (a *Agent) ProcessText(ctx context.Context, text string) (Outcome, error) {
	cmd, err := a.interp.Interpret(text)
	if err != nil {
		return Outcome{
			Decision: decision.Decision{Provenance: decision.Rejected, Reason: err.Error()},
			Reason:   fmt.Sprintf("could not interpret %q", text),
		}, nil
	}
	return a.ProcessCommand(ctx, cmd)
}

// ProcessCommand is the single entry point for direct commands. While
// a mission is RUNNING, generic flight primitives are refused and
// queued as interrupt candidates; pausing the mission first is
// required before they can run.
func (a *Agent) ProcessCommand(ctx context.Context, cmd command.Command) (Outcome, error) {
	if cmd.Name == command.CapEmergencyStop {
		return a.emergencyOutcome(ctx, cmd)
	}

	if command.Motion(cmd.Name) && a.missionRunning() {
		a.mu.Lock()
		a.pending = append(a.pending, cmd)
		n := len(a.pending)
		a.mu.Unlock()
		return Outcome{
			Command: cmd,
			Queued:  true,
			Reason:  fmt.Sprintf("mission running: %s queued as interrupt candidate %d; pause the mission to execute", cmd.Name, n),
		}, nil
	}

	snap := a.holder.Latest()
	sctx := a.safetyContext(snap, cmd)
	adv := a.arbiter.Evaluate(snap, sctx)
	dec := a.maker.Decide(cmd, snap, adv, sctx)
	a.recordDecision(cmd, dec)

	out := Outcome{Command: cmd, Decision: dec, Reason: dec.Reason}
	if !dec.Actionable() {
		return out, nil
	}

	if err := a.vehicle.Invoke(ctx, dec.Action, dec.Params); err != nil {
		out.Reason = err.Error()
		return out, err
	}
	out.Executed = true
	return out, nil
}

// PendingInterrupts returns commands refused during a running mission.
func (a *Agent) PendingInterrupts() []command.Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]command.Command, len(a.pending))
	copy(out, a.pending)
	return out
}

// FlushInterrupts processes queued interrupt candidates once the
// mission is no longer RUNNING. It stops at the first link error.
func (a *Agent) FlushInterrupts(ctx context.Context) ([]Outcome, error) {
	if a.missionRunning() {
		return nil, errors.New("mission still running: pause or abort it first")
	}
	a.mu.Lock()
	queued := a.pending
	a.pending = nil
	a.mu.Unlock()

	outcomes := make([]Outcome, 0, len(queued))
	for _, cmd := range queued {
		out, err := a.ProcessCommand(ctx, cmd)
		outcomes = append(outcomes, out)
		if err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

// safetyContext derives the arbiter inputs from the latest snapshot
// and the requested command.
func (a *Agent) safetyContext(snap telemetry.Snapshot, cmd command.Command) safety.Context {
	phase := safety.PhaseCruise
	if snap.Position.Z < 0.5 {
		phase = safety.PhaseGround
	}
	switch cmd.Name {
	case command.CapTakeoff:
		phase = safety.PhaseTakeoff
	case command.CapLand:
		phase = safety.PhaseLanding
	}

	home := telemetry.Position{}
	sctx := safety.Context{
		Phase:            phase,
		Home:             home,
		DistanceFromHome: telemetry.Distance(home, snap.Position),
		EmergencyStop:    a.estopActive(),
	}
	switch cmd.Name {
	case command.CapTakeoff:
		sctx.TargetAltitude = cmd.Param("altitude", 10)
	case command.CapGoto:
		target := telemetry.Position{
			X: cmd.Param("x", snap.Position.X),
			Y: cmd.Param("y", snap.Position.Y),
			Z: cmd.Param("z", snap.Position.Z),
		}
		sctx.TargetAltitude = target.Z
		sctx.TargetDistance = telemetry.Distance(home, target)
	}
	return sctx
}

// recordDecision mirrors the arbitrated command into both memory
// horizons, one record per decision.
func (a *Agent) recordDecision(cmd command.Command, dec decision.Decision) {
	entry := memory.Entry{
		Kind:      memory.KindDecision,
		Text:      fmt.Sprintf("command %s %s: %s", cmd.Name, dec.Provenance, dec.Reason),
		Tags:      []string{"decision", string(dec.Provenance)},
		MissionID: a.activeMissionID(),
	}
	a.short.Record(entry)
	if err := a.long.Store(entry); err != nil {
		log.Printf("[AGENT] store decision failed: %v", err)
	}
}

// #endregion command-processing

// #region missions

// ErrMissionActive means a second mission start was refused.
var ErrMissionActive = errors.New("a mission is already running")

// ErrNoSuchMission means the id does not match the active mission.
var ErrNoSuchMission = errors.New("no such mission")

// StartMission launches a mission executor in the background. Only
// one mission may be RUNNING per vehicle.
func (a *Agent) StartMission(ctx context.Context, spec mission.Spec) (string, error) {
	if len(spec.Waypoints) == 0 {
		return "", mission.ErrNoWaypoints
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exec != nil && !a.exec.Status().Terminal() {
		return "", ErrMissionActive
	}

	exec := mission.NewExecutor(spec, mission.Config{
		Vehicle:      a.vehicle,
		Arbiter:      a.arbiter,
		Maker:        a.maker,
		Policy:       a.policy,
		Rewards:      a.config.Rewards,
		Short:        a.short,
		Long:         a.long,
		Reporter:     a.reporter,
		PollInterval: a.config.MissionPoll,
		TrainBatch:   a.config.TrainBatch,
	})
	a.exec = exec
	a.execErr = nil
	a.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if _, err := exec.Start(ctx); err != nil {
			a.mu.Lock()
			a.execErr = err
			a.mu.Unlock()
			log.Printf("[AGENT] mission %s finished: %v", exec.ID(), err)
		}
	}(a.done)

	return exec.ID(), nil
}

// WaitMission blocks until the active mission reaches a terminal
// status and returns its run error, if any.
func (a *Agent) WaitMission() error {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.execErr
}

// PauseMission holds the identified mission.
func (a *Agent) PauseMission(id string) error {
	exec, err := a.mission(id)
	if err != nil {
		return err
	}
	exec.Pause()
	return nil
}

// ResumeMission continues a paused mission at the same waypoint.
func (a *Agent) ResumeMission(id string) error {
	exec, err := a.mission(id)
	if err != nil {
		return err
	}
	exec.Resume()
	return nil
}

// AbortMission terminates the identified mission.
func (a *Agent) AbortMission(id, reason string) error {
	exec, err := a.mission(id)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = "operator abort"
	}
	exec.Abort(reason)
	return nil
}

func (a *Agent) mission(id string) (*mission.Executor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exec == nil || a.exec.ID() != id {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchMission, id)
	}
	return a.exec, nil
}

// missionRunning reports whether a mission is actively RUNNING. A
// paused mission releases the command interlock.
func (a *Agent) missionRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exec != nil && a.exec.Status() == mission.StatusRunning
}

func (a *Agent) activeMissionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exec == nil || a.exec.Status().Terminal() {
		return ""
	}
	return a.exec.ID()
}

// #endregion missions

// #region emergency-stop

// EmergencyStop short-circuits everything: the active mission aborts
// (landing first) and direct motion is refused until reset.
func (a *Agent) EmergencyStop(ctx context.Context) error {
	a.mu.Lock()
	a.estop = true
	exec := a.exec
	a.mu.Unlock()

	a.short.Record(memory.Entry{
		Kind: memory.KindEvent,
		Text: "emergency stop activated",
		Tags: []string{"emergency_stop"},
	})

	if exec != nil && !exec.Status().Terminal() {
		exec.EmergencyStop()
		return nil
	}
	// No mission to land the vehicle; do it directly.
	return a.vehicle.Invoke(ctx, command.CapLand, nil)
}

// ResetEmergencyStop re-enables motion after an operator all-clear.
func (a *Agent) ResetEmergencyStop() {
	a.mu.Lock()
	a.estop = false
	a.mu.Unlock()
}

func (a *Agent) estopActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.estop
}

func (a *Agent) emergencyOutcome(ctx context.Context, cmd command.Command) (Outcome, error) {
	err := a.EmergencyStop(ctx)
	out := Outcome{
		Command:  cmd,
		Decision: decision.Decision{Action: command.CapLand, Provenance: decision.Modified, Reason: "emergency stop"},
		Executed: err == nil,
		Reason:   "emergency stop",
	}
	return out, err
}

// #endregion emergency-stop

// #region status

// Status is the operator-facing snapshot of the whole agent.
type Status struct {
	MissionID     string
	MissionStatus mission.Status
	WaypointIndex int
	Telemetry     telemetry.Snapshot
	Advisory      safety.Advisory
	Epsilon       float64
	EmergencyStop bool
	Pending       int
}

// Status reports the current mission, telemetry, and safety state.
func (a *Agent) Status() Status {
	snap := a.holder.Latest()
	adv := a.arbiter.Evaluate(snap, safety.Context{
		Phase:            safety.PhaseCruise,
		DistanceFromHome: telemetry.Distance(telemetry.Position{}, snap.Position),
		EmergencyStop:    a.estopActive(),
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	st := Status{
		Telemetry:     snap,
		Advisory:      adv,
		Epsilon:       a.policy.Epsilon(),
		EmergencyStop: a.estop,
		Pending:       len(a.pending),
	}
	if a.exec != nil {
		st.MissionID = a.exec.ID()
		st.MissionStatus = a.exec.Status()
		st.WaypointIndex = a.exec.Index()
	}
	return st
}

// #endregion status
