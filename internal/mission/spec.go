// Package mission runs waypoint missions as a strict state machine:
// PENDING → RUNNING → {COMPLETED, ABORTED, FAILED}, RUNNING ⇄ PAUSED.
package mission

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #region errors

var (
	// ErrNoWaypoints means a mission was started with an empty route.
	ErrNoWaypoints = errors.New("mission has no waypoints")

	// ErrAbortedExternally means an operator or the emergency-stop
	// path terminated the mission.
	ErrAbortedExternally = errors.New("mission aborted externally")
)

// #endregion errors

// #region status

// Status is the mission state machine position.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted || s == StatusFailed
}

// #endregion status

// #region spec

// Waypoint is one route point in local-frame meters.
type Waypoint struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Speed  float64 `yaml:"speed,omitempty"`
	Action string  `yaml:"action,omitempty"` // optional capability at the point
}

// Spec describes a mission route and its execution limits.
type Spec struct {
	ID                 string     `yaml:"id,omitempty"`
	Name               string     `yaml:"name"`
	Waypoints          []Waypoint `yaml:"waypoints"`
	Speed              float64    `yaml:"speed,omitempty"`
	MaxRetries         int        `yaml:"max_retries,omitempty"`
	Tolerance          float64    `yaml:"tolerance,omitempty"`
	StepTimeoutSeconds float64    `yaml:"step_timeout_seconds,omitempty"`
}

// Defaults fills unset limits. Retries follow the attempt budget of
// the retry engine: 2 retries = 3 total attempts per waypoint.
func (s *Spec) Defaults() {
	if s.MaxRetries == 0 {
		s.MaxRetries = 2
	}
	if s.Tolerance == 0 {
		s.Tolerance = 2.0
	}
	if s.StepTimeoutSeconds == 0 {
		s.StepTimeoutSeconds = 60
	}
}

// StepTimeout returns the per-waypoint deadline.
func (s Spec) StepTimeout() time.Duration {
	return time.Duration(s.StepTimeoutSeconds * float64(time.Second))
}

// LoadSpec reads a mission spec from a YAML file and applies defaults.
func LoadSpec(path string) (Spec, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read mission spec: %w", err)
	}
	var s Spec
	if err := yaml.Unmarshal(blob, &s); err != nil {
		return Spec{}, fmt.Errorf("parse mission spec %s: %w", path, err)
	}
	s.Defaults()
	return s, nil
}

// #endregion spec
