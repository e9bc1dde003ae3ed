// Package link talks to the flight-controller sidecar over gRPC.
//
// Regenerate the stubs with:
//
//	protoc --go_out=. --go-grpc_out=. proto/vehicle.proto
package link

import (
	"context"
	"errors"

	"github.com/coba-ai/drone-agent/internal/telemetry"
)

// #region errors

var (
	// ErrCapabilityTimeout means the vehicle did not acknowledge a
	// capability invocation within the deadline.
	ErrCapabilityTimeout = errors.New("capability invocation timed out")

	// ErrCapabilityError means the vehicle rejected or failed a
	// capability invocation.
	ErrCapabilityError = errors.New("capability invocation failed")
)

// #endregion errors

// #region vehicle

// Vehicle is the capability surface the agent drives. Implemented by
// GRPCVehicle for real hardware and by the simulator for tests.
type Vehicle interface {
	// Telemetry reads the current vehicle state.
	Telemetry(ctx context.Context) (telemetry.Snapshot, error)
	// Invoke issues a capability with numeric parameters.
	Invoke(ctx context.Context, capability string, params map[string]float64) error
	// Close releases the underlying transport.
	Close() error
}

// #endregion vehicle
