package memory

import "time"

// #region kind

// Kind labels what a memory entry records.
type Kind string

const (
	KindEvent     Kind = "event"
	KindDecision  Kind = "decision"
	KindDetection Kind = "detection"
)

// #endregion kind

// #region entry

// Entry is one record in either store.
type Entry struct {
	ID        string
	Kind      Kind
	Text      string
	Tags      []string
	MissionID string
	CreatedAt time.Time
}

// #endregion entry

// #region experience-row

// ExperienceRow is the durable form of a learning experience.
type ExperienceRow struct {
	MissionID string
	Context   string // coarse situation key, e.g. flight phase
	Action    string
	Reward    float64
	StateJSON string
	NextJSON  string
	Terminal  bool
	CreatedAt time.Time
}

// #endregion experience-row
