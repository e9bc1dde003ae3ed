package telemetry

import (
	"math"
	"sync/atomic"
	"time"
)

// #region position

// Position is a local-frame coordinate in meters; Z is altitude above home.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Velocity is a velocity vector in m/s.
type Velocity struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
	VZ float64 `json:"vz"`
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// #endregion position

// #region snapshot

// Snapshot is the latest known vehicle and environment state.
// Snapshots are immutable; a new one replaces the previous whole.
type Snapshot struct {
	Timestamp        time.Time `json:"timestamp"`
	Position         Position  `json:"position"`
	Velocity         Velocity  `json:"velocity"`
	Heading          float64   `json:"heading"` // degrees, 0 = north
	Battery          float64   `json:"battery"` // percent remaining
	SignalStrength   float64   `json:"signal_strength"`
	WindSpeed        float64   `json:"wind_speed"` // m/s
	Temperature      float64   `json:"temperature"`
	ObstacleDistance float64   `json:"obstacle_distance"` // meters, 0 = unknown
}

// Speed returns the magnitude of the velocity vector.
func (s Snapshot) Speed() float64 {
	v := s.Velocity
	return math.Sqrt(v.VX*v.VX + v.VY*v.VY + v.VZ*v.VZ)
}

// #endregion snapshot

// #region holder

// Holder is a single-writer cell for the current snapshot. Readers
// always see the latest complete snapshot; there are no torn reads.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder seeded with the given snapshot.
func NewHolder(initial Snapshot) *Holder {
	h := &Holder{}
	h.Set(initial)
	return h
}

// Set replaces the current snapshot atomically.
func (h *Holder) Set(s Snapshot) {
	snap := s
	h.current.Store(&snap)
}

// Latest returns the most recent snapshot.
func (h *Holder) Latest() Snapshot {
	return *h.current.Load()
}

// #endregion holder
