package telemetry

// #region constants

// FeatureSize is the fixed width of the learner state vector.
const FeatureSize = 12

// Normalization scales keep every feature roughly within [-1, 1].
const (
	positionScale = 1000.0 // meters
	velocityScale = 20.0   // m/s
	headingScale  = 360.0
	windScale     = 30.0
	tempScale     = 100.0
)

// #endregion constants

// #region features

// Features flattens a snapshot plus mission progress into the fixed-width
// numeric state vector consumed by the learning policy.
func Features(s Snapshot, missionProgress float32) []float32 {
	f := make([]float32, FeatureSize)
	f[0] = float32(s.Position.X / positionScale)
	f[1] = float32(s.Position.Y / positionScale)
	f[2] = float32(s.Position.Z / positionScale)
	f[3] = float32(s.Velocity.VX / velocityScale)
	f[4] = float32(s.Velocity.VY / velocityScale)
	f[5] = float32(s.Velocity.VZ / velocityScale)
	f[6] = float32(s.Heading / headingScale)
	f[7] = float32(s.Battery / 100.0)
	f[8] = float32(s.SignalStrength / 100.0)
	f[9] = float32(s.WindSpeed / windScale)
	f[10] = float32(s.Temperature / tempScale)
	f[11] = missionProgress
	return f
}

// #endregion features
