package link

import (
	"context"
	"errors"
	"testing"

	pb "github.com/coba-ai/drone-agent/gen/vehicle"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// #region mock

type mockVehicleService struct {
	pb.VehicleServiceClient

	telemetryResp *pb.TelemetryResponse
	telemetryErr  error

	invokeResp *pb.InvokeResponse
	invokeErr  error

	lastInvoke *pb.InvokeRequest
}

func (m *mockVehicleService) GetTelemetry(_ context.Context, _ *pb.TelemetryRequest, _ ...grpc.CallOption) (*pb.TelemetryResponse, error) {
	return m.telemetryResp, m.telemetryErr
}

func (m *mockVehicleService) Invoke(_ context.Context, req *pb.InvokeRequest, _ ...grpc.CallOption) (*pb.InvokeResponse, error) {
	m.lastInvoke = req
	return m.invokeResp, m.invokeErr
}

// #endregion mock

// #region constructor-tests

func TestNewGRPCVehicle(t *testing.T) {
	v, err := NewGRPCVehicle("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating vehicle: %v", err)
	}
	defer v.Close()
}

func TestNewGRPCVehicleWithService(t *testing.T) {
	v := NewGRPCVehicleWithService(&mockVehicleService{})
	if v == nil {
		t.Fatal("expected non-nil vehicle")
	}
	if v.client == nil {
		t.Fatal("expected non-nil internal client")
	}
	if err := v.Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}
}

// #endregion constructor-tests

// #region telemetry-tests

func TestTelemetry_Success(t *testing.T) {
	mock := &mockVehicleService{
		telemetryResp: &pb.TelemetryResponse{
			PosX:    10,
			PosY:    -4,
			PosZ:    25,
			Battery: 87.5,
		},
	}
	v := NewGRPCVehicleWithService(mock)

	snap, err := v.Telemetry(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Position.X != 10 || snap.Position.Z != 25 {
		t.Errorf("position not mapped: %+v", snap.Position)
	}
	if snap.Battery != 87.5 {
		t.Errorf("expected battery 87.5, got %f", snap.Battery)
	}
}

func TestTelemetry_Error(t *testing.T) {
	mock := &mockVehicleService{
		telemetryErr: errors.New("rpc failed"),
	}
	v := NewGRPCVehicleWithService(mock)

	_, err := v.Telemetry(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.telemetryErr) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

// #endregion telemetry-tests

// #region invoke-tests

func TestInvoke_Success(t *testing.T) {
	mock := &mockVehicleService{
		invokeResp: &pb.InvokeResponse{Accepted: true},
	}
	v := NewGRPCVehicleWithService(mock)

	err := v.Invoke(context.Background(), "takeoff", map[string]float64{"altitude": 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastInvoke.Capability != "takeoff" {
		t.Errorf("expected capability 'takeoff', got %q", mock.lastInvoke.Capability)
	}
	if mock.lastInvoke.Params["altitude"] != 20 {
		t.Errorf("expected altitude param 20, got %v", mock.lastInvoke.Params)
	}
}

func TestInvoke_Rejected(t *testing.T) {
	mock := &mockVehicleService{
		invokeResp: &pb.InvokeResponse{Accepted: false, Detail: "motors not armed"},
	}
	v := NewGRPCVehicleWithService(mock)

	err := v.Invoke(context.Background(), "takeoff", nil)
	if !errors.Is(err, ErrCapabilityError) {
		t.Fatalf("expected ErrCapabilityError, got: %v", err)
	}
}

func TestInvoke_Timeout(t *testing.T) {
	mock := &mockVehicleService{
		invokeErr: status.Error(codes.DeadlineExceeded, "deadline exceeded"),
	}
	v := NewGRPCVehicleWithService(mock)

	err := v.Invoke(context.Background(), "goto", map[string]float64{"x": 1})
	if !errors.Is(err, ErrCapabilityTimeout) {
		t.Fatalf("expected ErrCapabilityTimeout, got: %v", err)
	}
}

func TestInvoke_TransportError(t *testing.T) {
	mock := &mockVehicleService{
		invokeErr: status.Error(codes.Unavailable, "connection refused"),
	}
	v := NewGRPCVehicleWithService(mock)

	err := v.Invoke(context.Background(), "land", nil)
	if !errors.Is(err, ErrCapabilityError) {
		t.Fatalf("expected ErrCapabilityError, got: %v", err)
	}
}

// #endregion invoke-tests
