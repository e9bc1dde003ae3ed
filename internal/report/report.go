// Package report aggregates and delivers end-of-mission summaries.
package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region types

// Event is one mission timeline entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
}

// Report is the end-of-mission summary delivered to operators.
type Report struct {
	MissionID          string              `json:"mission_id"`
	MissionName        string              `json:"mission_name"`
	Status             string              `json:"status"`
	StartedAt          time.Time           `json:"started_at"`
	FinishedAt         time.Time           `json:"finished_at"`
	DurationSeconds    float64             `json:"duration_seconds"`
	WaypointsCompleted int                 `json:"waypoints_completed"`
	WaypointsTotal     int                 `json:"waypoints_total"`
	MinBattery         float64             `json:"min_battery"`
	MaxWindSpeed       float64             `json:"max_wind_speed"`
	Events             []Event             `json:"events"`
	FailureWaypoint    int                 `json:"failure_waypoint,omitempty"`
	LastTelemetry      *telemetry.Snapshot `json:"last_telemetry,omitempty"`
}

// #endregion types

// #region reporter

// Reporter receives the final report for a finished mission.
type Reporter interface {
	Deliver(r Report) error
}

// FileReporter writes one JSON file per mission under a directory.
type FileReporter struct {
	Dir string
}

// Deliver writes the report as <mission_id>.json.
func (f FileReporter) Deliver(r Report) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("reports dir: %w", err)
	}
	blob, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(f.Dir, r.MissionID+".json")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// LogReporter prints a one-line summary; used when no reports dir is
// configured and in tests.
type LogReporter struct{}

// Deliver logs the report summary.
func (LogReporter) Deliver(r Report) error {
	log.Printf("[REPORT] mission=%s status=%s waypoints=%d/%d duration=%.1fs min_battery=%.1f",
		r.MissionID, r.Status, r.WaypointsCompleted, r.WaypointsTotal,
		r.DurationSeconds, r.MinBattery)
	return nil
}

// #endregion reporter
