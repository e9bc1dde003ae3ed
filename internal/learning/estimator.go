package learning

import (
	"encoding/json"
	"fmt"
)

// #region estimator

// Estimator scores candidate actions for a state and learns from
// experience batches. The policy treats it as opaque.
type Estimator interface {
	Predict(state []float32) map[string]float32
	Update(batch []Experience) error
}

// #endregion estimator

// #region linear-q

// LinearQ estimates action values as a per-action linear function of
// the state vector plus a bias, trained by one-step temporal
// difference updates.
type LinearQ struct {
	LearningRate float32
	Gamma        float32
	Weights      map[string][]float32
	Bias         map[string]float32
}

// NewLinearQ creates an estimator with the given hyperparameters.
func NewLinearQ(learningRate, gamma float32) *LinearQ {
	return &LinearQ{
		LearningRate: learningRate,
		Gamma:        gamma,
		Weights:      make(map[string][]float32),
		Bias:         make(map[string]float32),
	}
}

// Predict returns a score per known action. Unseen actions score 0
// via SeedBias or simply stay absent.
func (q *LinearQ) Predict(state []float32) map[string]float32 {
	out := make(map[string]float32, len(q.Weights)+len(q.Bias))
	for action := range q.Bias {
		out[action] = q.Bias[action]
	}
	for action, w := range q.Weights {
		out[action] = q.Bias[action] + dot(w, state)
	}
	return out
}

// Update applies a TD(0) step per experience in the batch.
func (q *LinearQ) Update(batch []Experience) error {
	for _, e := range batch {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("update batch: %w", err)
		}

		w := q.weightsFor(e.Action, len(e.State))

		target := float32(e.Reward)
		if !e.Terminal {
			target += q.Gamma * maxValue(q.Predict(e.NextState))
		}
		current := q.Bias[e.Action] + dot(w, e.State)
		delta := q.LearningRate * (target - current)

		for i := range w {
			w[i] += delta * e.State[i]
		}
		q.Bias[e.Action] += delta
	}
	return nil
}

// SeedBias warm-starts per-action baselines, e.g. from the long-term
// experience store's decay-weighted action quality.
func (q *LinearQ) SeedBias(quality map[string]float64) {
	for action, v := range quality {
		q.Bias[action] = float32(v)
	}
}

func (q *LinearQ) weightsFor(action string, width int) []float32 {
	w, ok := q.Weights[action]
	if !ok || len(w) != width {
		w = make([]float32, width)
		q.Weights[action] = w
	}
	return w
}

// #endregion linear-q

// #region serialization

// State serializes the estimator for checkpointing.
func (q *LinearQ) State() ([]byte, error) {
	return json.Marshal(q)
}

// Load restores a serialized estimator in place.
func (q *LinearQ) Load(blob []byte) error {
	if err := json.Unmarshal(blob, q); err != nil {
		return fmt.Errorf("load estimator: %w", err)
	}
	if q.Weights == nil {
		q.Weights = make(map[string][]float32)
	}
	if q.Bias == nil {
		q.Bias = make(map[string]float32)
	}
	return nil
}

// #endregion serialization

// #region helpers

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func maxValue(scores map[string]float32) float32 {
	var best float32
	first := true
	for _, v := range scores {
		if first || v > best {
			best = v
			first = false
		}
	}
	return best
}

// #endregion helpers
