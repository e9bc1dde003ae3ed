package mission

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coba-ai/drone-agent/internal/command"
	"github.com/coba-ai/drone-agent/internal/decision"
	"github.com/coba-ai/drone-agent/internal/learning"
	"github.com/coba-ai/drone-agent/internal/memory"
	"github.com/coba-ai/drone-agent/internal/report"
	"github.com/coba-ai/drone-agent/internal/safety"
	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region fake-vehicle

// fakeVehicle is a scripted link.Vehicle: goto teleports to the
// target, and an optional per-call hook drives operator actions at
// deterministic points.
type fakeVehicle struct {
	mu           sync.Mutex
	pos          telemetry.Position
	battery      float64
	arriveOnGoto bool
	invocations  []string
	calls        int
	onTelemetry  func(call int)
}

func newFakeVehicle() *fakeVehicle {
	return &fakeVehicle{battery: 90, arriveOnGoto: true}
}

func (f *fakeVehicle) Telemetry(_ context.Context) (telemetry.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	hook := f.onTelemetry
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return telemetry.Snapshot{
		Timestamp:      time.Now(),
		Position:       f.pos,
		Battery:        f.battery,
		SignalStrength: 95,
		WindSpeed:      3,
		Temperature:    20,
	}, nil
}

func (f *fakeVehicle) Invoke(_ context.Context, capability string, params map[string]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invocations = append(f.invocations, capability)
	if capability == command.CapGoto && f.arriveOnGoto {
		f.pos = telemetry.Position{X: params["x"], Y: params["y"], Z: params["z"]}
	}
	return nil
}

func (f *fakeVehicle) Close() error { return nil }

func (f *fakeVehicle) invoked(capability string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.invocations {
		if c == capability {
			return true
		}
	}
	return false
}

// #endregion fake-vehicle

// #region helpers

func testSpec(waypoints int) Spec {
	s := Spec{Name: "test route", StepTimeoutSeconds: 2}
	for i := 1; i <= waypoints; i++ {
		s.Waypoints = append(s.Waypoints, Waypoint{X: float64(i * 10), Z: 10})
	}
	return s
}

func testConfig(t *testing.T, v *fakeVehicle) Config {
	t.Helper()
	pc := learning.DefaultPolicyConfig()
	pc.Seed = 1
	c := DefaultConfig()
	c.Vehicle = v
	c.Arbiter = safety.NewArbiter(safety.DefaultThresholds())
	c.Maker = decision.NewMaker()
	c.Policy = learning.NewPolicy(pc)
	c.Short = memory.NewShortTerm(64)
	c.Reporter = report.LogReporter{}
	c.PollInterval = time.Millisecond
	return c
}

func newTestLongTerm(t *testing.T) *memory.LongTerm {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	lt, err := memory.NewLongTerm(db)
	if err != nil {
		t.Fatalf("new long-term: %v", err)
	}
	return lt
}

func countEvents(events []report.Event, substr string) int {
	n := 0
	for _, ev := range events {
		if strings.Contains(ev.Detail, substr) {
			n++
		}
	}
	return n
}

// #endregion helpers

// #region completion

func TestMissionCompletes(t *testing.T) {
	v := newFakeVehicle()
	config := testConfig(t, v)
	config.Long = newTestLongTerm(t)
	e := NewExecutor(testSpec(3), config)

	if e.Status() != StatusPending {
		t.Fatalf("initial status = %s, want pending", e.Status())
	}

	rep, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Status() != StatusCompleted {
		t.Fatalf("status = %s, want completed", e.Status())
	}
	if e.Index() != 3 {
		t.Fatalf("index = %d, want 3", e.Index())
	}
	if rep.WaypointsCompleted != 3 || rep.WaypointsTotal != 3 {
		t.Fatalf("report waypoints %d/%d", rep.WaypointsCompleted, rep.WaypointsTotal)
	}

	// One experience per completed step, last one terminal.
	if config.Policy.BufferLen() != 3 {
		t.Fatalf("buffered experiences = %d, want 3", config.Policy.BufferLen())
	}
	rows, err := config.Long.Experiences(10, e.ID())
	if err != nil {
		t.Fatalf("Experiences: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("stored experiences = %d, want 3", len(rows))
	}
	terminals := 0
	for _, r := range rows {
		if r.Terminal {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("terminal experiences = %d, want 1", terminals)
	}

	// One decay tick per completed step.
	pc := learning.DefaultPolicyConfig()
	want := pc.Epsilon
	for i := 0; i < 3; i++ {
		want *= pc.EpsilonDecay
	}
	if got := config.Policy.Epsilon(); got != want {
		t.Fatalf("epsilon = %v, want %v", got, want)
	}
}

func TestStartWithoutWaypoints(t *testing.T) {
	e := NewExecutor(Spec{Name: "empty"}, testConfig(t, newFakeVehicle()))

	_, err := e.Start(context.Background())
	if !errors.Is(err, ErrNoWaypoints) {
		t.Fatalf("expected ErrNoWaypoints, got %v", err)
	}
	if e.Status() != StatusPending {
		t.Fatalf("status = %s, want pending", e.Status())
	}
}

func TestWaypointActionExecuted(t *testing.T) {
	v := newFakeVehicle()
	spec := testSpec(2)
	spec.Waypoints[1].Action = command.CapLand
	e := NewExecutor(spec, testConfig(t, v))

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Status() != StatusCompleted {
		t.Fatalf("status = %s, want completed", e.Status())
	}
	if !v.invoked(command.CapLand) {
		t.Fatal("waypoint land action never invoked")
	}
	if countEvents(e.Events(), "executed land") != 1 {
		t.Fatalf("action events = %d, want 1", countEvents(e.Events(), "executed land"))
	}
}

func TestStartTwiceRejected(t *testing.T) {
	v := newFakeVehicle()
	e := NewExecutor(testSpec(1), testConfig(t, v))

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := e.Start(context.Background()); err == nil {
		t.Fatal("second start accepted on terminal mission")
	}
}

// #endregion completion

// #region emergency-stop

func TestEmergencyStopAborts(t *testing.T) {
	v := newFakeVehicle()
	config := testConfig(t, v)
	e := NewExecutor(testSpec(3), config)

	// Fires during the second waypoint's pre-flight telemetry read.
	v.onTelemetry = func(call int) {
		if call == 3 {
			e.EmergencyStop()
		}
	}

	rep, err := e.Start(context.Background())
	if !errors.Is(err, ErrAbortedExternally) {
		t.Fatalf("expected ErrAbortedExternally, got %v", err)
	}
	if e.Status() != StatusAborted {
		t.Fatalf("status = %s, want aborted", e.Status())
	}
	if !v.invoked(command.CapLand) {
		t.Fatal("no land issued before abort")
	}
	if rep.WaypointsCompleted != 1 {
		t.Fatalf("waypoints completed = %d, want 1", rep.WaypointsCompleted)
	}
	if rep.LastTelemetry == nil {
		t.Fatal("aborted report missing last telemetry")
	}
}

func TestEmergencyStopTerminalNoop(t *testing.T) {
	v := newFakeVehicle()
	e := NewExecutor(testSpec(1), testConfig(t, v))
	if _, err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	e.EmergencyStop()
	if e.Status() != StatusCompleted {
		t.Fatalf("terminal status changed to %s", e.Status())
	}
}

// #endregion emergency-stop

// #region pause-resume

func TestPauseResumeIdempotent(t *testing.T) {
	v := newFakeVehicle()
	v.arriveOnGoto = false
	config := testConfig(t, v)
	e := NewExecutor(testSpec(1), config)

	v.onTelemetry = func(call int) {
		switch {
		case call == 2:
			e.Pause()
			e.Pause() // second pause is a no-op
			e.Resume()
			e.Resume() // second resume is a no-op
		case call >= 3:
			v.mu.Lock()
			v.pos = telemetry.Position{X: 10, Z: 10}
			v.mu.Unlock()
		}
	}

	rep, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Status() != StatusCompleted {
		t.Fatalf("status = %s, want completed", e.Status())
	}
	if got := countEvents(rep.Events, "mission paused"); got != 1 {
		t.Fatalf("paused events = %d, want 1", got)
	}
	if got := countEvents(rep.Events, "mission resumed"); got != 1 {
		t.Fatalf("resumed events = %d, want 1", got)
	}
	if !v.invoked(command.CapHover) {
		t.Fatal("pause did not hold position")
	}
}

func TestPauseBetweenDecideAndInvokeHolds(t *testing.T) {
	v := newFakeVehicle()
	config := testConfig(t, v)
	e := NewExecutor(testSpec(1), config)

	resumed := make(chan struct{})
	v.onTelemetry = func(call int) {
		if call != 1 {
			return
		}
		// Pause lands after the telemetry read, before the decided
		// goto reaches the vehicle.
		e.Pause()
		go func() {
			defer close(resumed)
			time.Sleep(20 * time.Millisecond)
			if v.invoked(command.CapGoto) {
				t.Error("goto issued while paused")
			}
			e.Resume()
		}()
	}

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-resumed
	if e.Status() != StatusCompleted {
		t.Fatalf("status = %s, want completed", e.Status())
	}
	if !v.invoked(command.CapHover) || !v.invoked(command.CapGoto) {
		t.Fatal("expected hover while paused, then goto after resume")
	}
}

// #endregion pause-resume

// #region failure

func TestRetryExhaustionFails(t *testing.T) {
	v := newFakeVehicle()
	v.arriveOnGoto = false
	config := testConfig(t, v)
	spec := testSpec(2)
	spec.MaxRetries = 1
	spec.StepTimeoutSeconds = 0.005
	e := NewExecutor(spec, config)

	rep, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Status() != StatusFailed {
		t.Fatalf("status = %s, want failed", e.Status())
	}
	if rep.FailureWaypoint != 0 {
		t.Fatalf("failure waypoint = %d, want 0", rep.FailureWaypoint)
	}
	if got := countEvents(rep.Events, "retries exhausted"); got != 1 {
		t.Fatalf("exhaustion events = %d, want 1", got)
	}
}

func TestBatteryCriticalFailsTerminal(t *testing.T) {
	v := newFakeVehicle()
	v.battery = 5 // below critical threshold
	config := testConfig(t, v)
	e := NewExecutor(testSpec(2), config)

	rep, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Status() != StatusFailed {
		t.Fatalf("status = %s, want failed", e.Status())
	}
	if rep.WaypointsCompleted != 0 {
		t.Fatalf("waypoints completed = %d, want 0", rep.WaypointsCompleted)
	}
	if config.Policy.BufferLen() != 1 {
		t.Fatalf("buffered experiences = %d, want 1", config.Policy.BufferLen())
	}
	if v.invoked(command.CapGoto) {
		t.Fatal("blocked motion reached the vehicle")
	}
}

// #endregion failure

// #region spec-loading

func TestLoadSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.yaml")
	doc := `
name: perimeter sweep
speed: 6
waypoints:
  - {x: 10, y: 0, z: 20}
  - {x: 10, y: 10, z: 20, action: hover}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	s, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if s.Name != "perimeter sweep" || len(s.Waypoints) != 2 {
		t.Fatalf("spec mismatch: %+v", s)
	}
	if s.Waypoints[1].Action != "hover" {
		t.Fatalf("waypoint action lost: %+v", s.Waypoints[1])
	}
	// Defaults applied for unset limits.
	if s.MaxRetries != 2 || s.Tolerance != 2.0 || s.StepTimeout() != time.Minute {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// #endregion spec-loading
