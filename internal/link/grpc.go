package link

import (
	"context"
	"fmt"
	"time"

	pb "github.com/coba-ai/drone-agent/gen/vehicle"
	"github.com/coba-ai/drone-agent/internal/telemetry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// #region client-struct

// GRPCVehicle wraps the gRPC connection to the flight-controller
// sidecar process.
type GRPCVehicle struct {
	conn    *grpc.ClientConn
	client  pb.VehicleServiceClient
	timeout time.Duration
}

// #endregion client-struct

// #region constructor

// DefaultInvokeTimeout bounds a single capability round-trip.
const DefaultInvokeTimeout = 5 * time.Second

// NewGRPCVehicle connects to the flight-controller gRPC server.
func NewGRPCVehicle(addr string) (*GRPCVehicle, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPCVehicle{
		conn:    conn,
		client:  pb.NewVehicleServiceClient(conn),
		timeout: DefaultInvokeTimeout,
	}, nil
}

// NewGRPCVehicleWithService creates a GRPCVehicle with an injected
// service implementation. Used for testing without a real connection.
func NewGRPCVehicleWithService(svc pb.VehicleServiceClient) *GRPCVehicle {
	return &GRPCVehicle{client: svc, timeout: DefaultInvokeTimeout}
}

// #endregion constructor

// #region close

// Close shuts down the gRPC connection.
func (v *GRPCVehicle) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}

// #endregion close

// #region telemetry

// Telemetry reads the current vehicle state from the sidecar.
func (v *GRPCVehicle) Telemetry(ctx context.Context) (telemetry.Snapshot, error) {
	resp, err := v.client.GetTelemetry(ctx, &pb.TelemetryRequest{})
	if err != nil {
		return telemetry.Snapshot{}, fmt.Errorf("telemetry rpc: %w", err)
	}
	return telemetry.Snapshot{
		Timestamp:        time.UnixMilli(int64(resp.TimestampUnixMs)),
		Position:         telemetry.Position{X: resp.PosX, Y: resp.PosY, Z: resp.PosZ},
		Velocity:         telemetry.Velocity{VX: resp.VelX, VY: resp.VelY, VZ: resp.VelZ},
		Heading:          resp.Heading,
		Battery:          resp.Battery,
		SignalStrength:   resp.SignalStrength,
		WindSpeed:        resp.WindSpeed,
		Temperature:      resp.Temperature,
		ObstacleDistance: resp.ObstacleDistance,
	}, nil
}

// #endregion telemetry

// #region invoke

// Invoke issues a capability to the vehicle. Deadline overruns map to
// ErrCapabilityTimeout, everything else to ErrCapabilityError, so
// callers can branch on the class without inspecting gRPC codes.
func (v *GRPCVehicle) Invoke(ctx context.Context, capability string, params map[string]float64) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.client.Invoke(ctx, &pb.InvokeRequest{
		Capability: capability,
		Params:     params,
	})
	if err != nil {
		if status.Code(err) == codes.DeadlineExceeded {
			return fmt.Errorf("%w: %s: %v", ErrCapabilityTimeout, capability, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrCapabilityError, capability, err)
	}
	if !resp.Accepted {
		return fmt.Errorf("%w: %s: %s", ErrCapabilityError, capability, resp.Detail)
	}
	return nil
}

// #endregion invoke
