package learning

// #region reward

// RewardConfig shapes the scalar feedback assigned per mission step.
// Values are configurable so reward shaping can be tuned per fleet.
type RewardConfig struct {
	WaypointReached float64
	MissionComplete float64
	SafetyViolation float64
	BatteryExhaust  float64
	StepCost        float64
}

// DefaultRewardConfig returns the stock shaping values.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		WaypointReached: 10.0,
		MissionComplete: 100.0,
		SafetyViolation: -50.0,
		BatteryExhaust:  -10.0,
		StepCost:        -0.1,
	}
}

// StepOutcome summarizes one executor step for reward assignment.
type StepOutcome struct {
	WaypointReached  bool
	MissionComplete  bool
	SafetyViolation  bool
	BatteryExhausted bool
}

// Reward computes the shaped reward for one step. Every step pays
// the step cost; terminal and milestone bonuses stack on top.
func (c RewardConfig) Reward(o StepOutcome) float64 {
	r := c.StepCost
	if o.WaypointReached {
		r += c.WaypointReached
	}
	if o.MissionComplete {
		r += c.MissionComplete
	}
	if o.SafetyViolation {
		r += c.SafetyViolation
	}
	if o.BatteryExhausted {
		r += c.BatteryExhaust
	}
	return r
}

// #endregion reward
