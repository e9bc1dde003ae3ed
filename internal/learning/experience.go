package learning

import (
	"errors"
	"math"
)

// #region experience

// ErrCorruptExperience marks a malformed tuple. Callers log and skip;
// it must never abort a running mission.
var ErrCorruptExperience = errors.New("corrupt experience")

// Experience is one (state, action, reward, next-state) tuple. It is
// never mutated after creation.
type Experience struct {
	State     []float32
	Action    string
	Reward    float64
	NextState []float32
	Terminal  bool
}

// Validate checks the tuple is usable for training.
func (e Experience) Validate() error {
	if e.Action == "" {
		return errors.Join(ErrCorruptExperience, errors.New("empty action"))
	}
	if len(e.State) == 0 || len(e.NextState) == 0 {
		return errors.Join(ErrCorruptExperience, errors.New("empty state vector"))
	}
	if len(e.State) != len(e.NextState) {
		return errors.Join(ErrCorruptExperience, errors.New("state width mismatch"))
	}
	if math.IsNaN(e.Reward) || math.IsInf(e.Reward, 0) {
		return errors.Join(ErrCorruptExperience, errors.New("non-finite reward"))
	}
	for _, v := range append(append([]float32{}, e.State...), e.NextState...) {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Join(ErrCorruptExperience, errors.New("non-finite state feature"))
		}
	}
	return nil
}

// #endregion experience
