package learning

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
)

// #region config

// PolicyConfig holds exploration and training hyperparameters.
type PolicyConfig struct {
	Epsilon       float64
	EpsilonMin    float64
	EpsilonDecay  float64
	LearningRate  float32
	Gamma         float32
	BufferSize    int
	Seed          int64 // 0 = nondeterministic
}

// DefaultPolicyConfig mirrors common DQN-style settings.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Epsilon:      1.0,
		EpsilonMin:   0.01,
		EpsilonDecay: 0.995,
		LearningRate: 0.001,
		Gamma:        0.99,
		BufferSize:   10000,
	}
}

// #endregion config

// #region policy

// Policy is the online-learning action-selection policy: an
// epsilon-greedy wrapper over an Estimator plus a replay buffer.
// One instance per vehicle, owned by the agent.
type Policy struct {
	mu      sync.Mutex
	config  PolicyConfig
	epsilon float64
	est     Estimator
	buffer  *ReplayBuffer
	rng     *rand.Rand
	updates int
}

// NewPolicy creates a policy with a LinearQ estimator.
func NewPolicy(config PolicyConfig) *Policy {
	return NewPolicyWithEstimator(config, NewLinearQ(config.LearningRate, config.Gamma))
}

// NewPolicyWithEstimator creates a policy over an injected estimator.
func NewPolicyWithEstimator(config PolicyConfig, est Estimator) *Policy {
	seed := config.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Policy{
		config:  config,
		epsilon: config.Epsilon,
		est:     est,
		buffer:  NewReplayBuffer(config.BufferSize),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// #endregion policy

// #region observe

// Observe validates and buffers an experience. Malformed tuples are
// logged and skipped; the error is informational.
func (p *Policy) Observe(e Experience) error {
	if err := e.Validate(); err != nil {
		log.Printf("[LEARN] skipping experience: %v", err)
		return err
	}
	p.buffer.Append(e)
	return nil
}

// BufferLen returns the replay buffer occupancy.
func (p *Policy) BufferLen() int {
	return p.buffer.Len()
}

// #endregion observe

// #region select-action

// SelectAction picks among candidates: with probability epsilon a
// uniform random candidate, otherwise the highest-scoring one, ties
// broken by the first-listed candidate.
func (p *Policy) SelectAction(state []float32, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() < p.epsilon {
		return candidates[p.rng.Intn(len(candidates))]
	}

	scores := p.est.Predict(state)
	best := candidates[0]
	bestScore := scores[best]
	for _, c := range candidates[1:] {
		if scores[c] > bestScore {
			best = c
			bestScore = scores[c]
		}
	}
	return best
}

// #endregion select-action

// #region train

// TrainStep samples a batch and updates the estimator. Below
// batchSize occupancy it is a no-op. Training failures are logged and
// skipped, never escalated to the mission loop.
func (p *Policy) TrainStep(batchSize int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	batch := p.buffer.Sample(batchSize, p.rng)
	if batch == nil {
		return
	}
	if err := p.est.Update(batch); err != nil {
		log.Printf("[LEARN] train step failed: %v", err)
		return
	}
	p.updates++
}

// Updates returns the completed-update counter.
func (p *Policy) Updates() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updates
}

// #endregion train

// #region epsilon

// StepDecay applies one multiplicative decay step:
// epsilon = max(epsilonMin, epsilon*epsilonDecay).
func (p *Policy) StepDecay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epsilon = p.epsilon * p.config.EpsilonDecay
	if p.epsilon < p.config.EpsilonMin {
		p.epsilon = p.config.EpsilonMin
	}
}

// Epsilon returns the current exploration rate.
func (p *Policy) Epsilon() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epsilon
}

// ResetEpsilon restores the configured starting exploration rate.
func (p *Policy) ResetEpsilon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epsilon = p.config.Epsilon
}

// #endregion epsilon

// #region checkpoint

type checkpoint struct {
	Epsilon   float64         `json:"epsilon"`
	Updates   int             `json:"updates"`
	Estimator json.RawMessage `json:"estimator,omitempty"`
}

// stateful is implemented by estimators that support checkpointing.
type stateful interface {
	State() ([]byte, error)
	Load([]byte) error
}

// Checkpoint serializes the policy (and estimator, when supported).
func (p *Policy) Checkpoint() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cp := checkpoint{Epsilon: p.epsilon, Updates: p.updates}
	if s, ok := p.est.(stateful); ok {
		blob, err := s.State()
		if err != nil {
			return nil, fmt.Errorf("checkpoint estimator: %w", err)
		}
		cp.Estimator = blob
	}
	return json.Marshal(cp)
}

// Restore loads a checkpoint produced by Checkpoint.
func (p *Policy) Restore(blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var cp checkpoint
	if err := json.Unmarshal(blob, &cp); err != nil {
		return fmt.Errorf("restore policy: %w", err)
	}
	p.epsilon = cp.Epsilon
	p.updates = cp.Updates
	if len(cp.Estimator) > 0 {
		if s, ok := p.est.(stateful); ok {
			if err := s.Load(cp.Estimator); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedQuality warm-starts the estimator from historical per-action
// quality when the estimator supports it.
func (p *Policy) SeedQuality(quality map[string]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.est.(*LinearQ); ok {
		q.SeedBias(quality)
	}
}

// #endregion checkpoint
