// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.10
// 	protoc        (unknown)
// source: vehicle.proto

package vehicle

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type TelemetryRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *TelemetryRequest) Reset() {
	*x = TelemetryRequest{}
	mi := &file_vehicle_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *TelemetryRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*TelemetryRequest) ProtoMessage() {}

func (x *TelemetryRequest) ProtoReflect() protoreflect.Message {
	mi := &file_vehicle_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use TelemetryRequest.ProtoReflect.Descriptor instead.
func (*TelemetryRequest) Descriptor() ([]byte, []int) {
	return file_vehicle_proto_rawDescGZIP(), []int{0}
}

type TelemetryResponse struct {
	state            protoimpl.MessageState `protogen:"open.v1"`
	TimestampUnixMs  float64                `protobuf:"fixed64,1,opt,name=timestamp_unix_ms,json=timestampUnixMs,proto3" json:"timestamp_unix_ms,omitempty"`
	PosX             float64                `protobuf:"fixed64,2,opt,name=pos_x,json=posX,proto3" json:"pos_x,omitempty"`
	PosY             float64                `protobuf:"fixed64,3,opt,name=pos_y,json=posY,proto3" json:"pos_y,omitempty"`
	PosZ             float64                `protobuf:"fixed64,4,opt,name=pos_z,json=posZ,proto3" json:"pos_z,omitempty"`
	VelX             float64                `protobuf:"fixed64,5,opt,name=vel_x,json=velX,proto3" json:"vel_x,omitempty"`
	VelY             float64                `protobuf:"fixed64,6,opt,name=vel_y,json=velY,proto3" json:"vel_y,omitempty"`
	VelZ             float64                `protobuf:"fixed64,7,opt,name=vel_z,json=velZ,proto3" json:"vel_z,omitempty"`
	Heading          float64                `protobuf:"fixed64,8,opt,name=heading,proto3" json:"heading,omitempty"`
	Battery          float64                `protobuf:"fixed64,9,opt,name=battery,proto3" json:"battery,omitempty"`
	SignalStrength   float64                `protobuf:"fixed64,10,opt,name=signal_strength,json=signalStrength,proto3" json:"signal_strength,omitempty"`
	WindSpeed        float64                `protobuf:"fixed64,11,opt,name=wind_speed,json=windSpeed,proto3" json:"wind_speed,omitempty"`
	Temperature      float64                `protobuf:"fixed64,12,opt,name=temperature,proto3" json:"temperature,omitempty"`
	ObstacleDistance float64                `protobuf:"fixed64,13,opt,name=obstacle_distance,json=obstacleDistance,proto3" json:"obstacle_distance,omitempty"`
	unknownFields    protoimpl.UnknownFields
	sizeCache        protoimpl.SizeCache
}

func (x *TelemetryResponse) Reset() {
	*x = TelemetryResponse{}
	mi := &file_vehicle_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *TelemetryResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*TelemetryResponse) ProtoMessage() {}

func (x *TelemetryResponse) ProtoReflect() protoreflect.Message {
	mi := &file_vehicle_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use TelemetryResponse.ProtoReflect.Descriptor instead.
func (*TelemetryResponse) Descriptor() ([]byte, []int) {
	return file_vehicle_proto_rawDescGZIP(), []int{1}
}

func (x *TelemetryResponse) GetTimestampUnixMs() float64 {
	if x != nil {
		return x.TimestampUnixMs
	}
	return 0
}

func (x *TelemetryResponse) GetPosX() float64 {
	if x != nil {
		return x.PosX
	}
	return 0
}

func (x *TelemetryResponse) GetPosY() float64 {
	if x != nil {
		return x.PosY
	}
	return 0
}

func (x *TelemetryResponse) GetPosZ() float64 {
	if x != nil {
		return x.PosZ
	}
	return 0
}

func (x *TelemetryResponse) GetVelX() float64 {
	if x != nil {
		return x.VelX
	}
	return 0
}

func (x *TelemetryResponse) GetVelY() float64 {
	if x != nil {
		return x.VelY
	}
	return 0
}

func (x *TelemetryResponse) GetVelZ() float64 {
	if x != nil {
		return x.VelZ
	}
	return 0
}

func (x *TelemetryResponse) GetHeading() float64 {
	if x != nil {
		return x.Heading
	}
	return 0
}

func (x *TelemetryResponse) GetBattery() float64 {
	if x != nil {
		return x.Battery
	}
	return 0
}

func (x *TelemetryResponse) GetSignalStrength() float64 {
	if x != nil {
		return x.SignalStrength
	}
	return 0
}

func (x *TelemetryResponse) GetWindSpeed() float64 {
	if x != nil {
		return x.WindSpeed
	}
	return 0
}

func (x *TelemetryResponse) GetTemperature() float64 {
	if x != nil {
		return x.Temperature
	}
	return 0
}

func (x *TelemetryResponse) GetObstacleDistance() float64 {
	if x != nil {
		return x.ObstacleDistance
	}
	return 0
}

type InvokeRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Capability    string                 `protobuf:"bytes,1,opt,name=capability,proto3" json:"capability,omitempty"`
	Params        map[string]float64     `protobuf:"bytes,2,rep,name=params,proto3" json:"params,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"fixed64,2,opt,name=value"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *InvokeRequest) Reset() {
	*x = InvokeRequest{}
	mi := &file_vehicle_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *InvokeRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*InvokeRequest) ProtoMessage() {}

func (x *InvokeRequest) ProtoReflect() protoreflect.Message {
	mi := &file_vehicle_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use InvokeRequest.ProtoReflect.Descriptor instead.
func (*InvokeRequest) Descriptor() ([]byte, []int) {
	return file_vehicle_proto_rawDescGZIP(), []int{2}
}

func (x *InvokeRequest) GetCapability() string {
	if x != nil {
		return x.Capability
	}
	return ""
}

func (x *InvokeRequest) GetParams() map[string]float64 {
	if x != nil {
		return x.Params
	}
	return nil
}

type InvokeResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Accepted      bool                   `protobuf:"varint,1,opt,name=accepted,proto3" json:"accepted,omitempty"`
	Detail        string                 `protobuf:"bytes,2,opt,name=detail,proto3" json:"detail,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *InvokeResponse) Reset() {
	*x = InvokeResponse{}
	mi := &file_vehicle_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *InvokeResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*InvokeResponse) ProtoMessage() {}

func (x *InvokeResponse) ProtoReflect() protoreflect.Message {
	mi := &file_vehicle_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use InvokeResponse.ProtoReflect.Descriptor instead.
func (*InvokeResponse) Descriptor() ([]byte, []int) {
	return file_vehicle_proto_rawDescGZIP(), []int{3}
}

func (x *InvokeResponse) GetAccepted() bool {
	if x != nil {
		return x.Accepted
	}
	return false
}

func (x *InvokeResponse) GetDetail() string {
	if x != nil {
		return x.Detail
	}
	return ""
}

var File_vehicle_proto protoreflect.FileDescriptor

const file_vehicle_proto_rawDesc = "" +
	"\n" +
	"\rvehicle.proto\x12\avehicle\"\x12\n" +
	"\x10TelemetryRequest\"\x88\x03\n" +
	"\x11TelemetryResponse\x12*\n" +
	"\x11timestamp_unix_ms\x18\x01 \x01(\x01R\x0ftimestampUnixMs\x12\x13\n" +
	"\x05pos_x\x18\x02 \x01(\x01R\x04posX\x12\x13\n" +
	"\x05pos_y\x18\x03 \x01(\x01R\x04posY\x12\x13\n" +
	"\x05pos_z\x18\x04 \x01(\x01R\x04posZ\x12\x13\n" +
	"\x05vel_x\x18\x05 \x01(\x01R\x04velX\x12\x13\n" +
	"\x05vel_y\x18\x06 \x01(\x01R\x04velY\x12\x13\n" +
	"\x05vel_z\x18\a \x01(\x01R\x04velZ\x12\x18\n" +
	"\aheading\x18\b \x01(\x01R\aheading\x12\x18\n" +
	"\abattery\x18\t \x01(\x01R\abattery\x12'\n" +
	"\x0fsignal_strength\x18\n" +
	" \x01(\x01R\x0esignalStrength\x12\x1d\n" +
	"\n" +
	"wind_speed\x18\v \x01(\x01R\twindSpeed\x12 \n" +
	"\vtemperature\x18\f \x01(\x01R\vtemperature\x12+\n" +
	"\x11obstacle_distance\x18\r \x01(\x01R\x10obstacleDistance\"\xa6\x01\n" +
	"\rInvokeRequest\x12\x1e\n" +
	"\n" +
	"capability\x18\x01 \x01(\tR\n" +
	"capability\x12:\n" +
	"\x06params\x18\x02 \x03(\v2\".vehicle.InvokeRequest.ParamsEntryR\x06params\x1a9\n" +
	"\vParamsEntry\x12\x10\n" +
	"\x03key\x18\x01 \x01(\tR\x03key\x12\x14\n" +
	"\x05value\x18\x02 \x01(\x01R\x05value:\x028\x01\"D\n" +
	"\x0eInvokeResponse\x12\x1a\n" +
	"\baccepted\x18\x01 \x01(\bR\baccepted\x12\x16\n" +
	"\x06detail\x18\x02 \x01(\tR\x06detail2\x92\x01\n" +
	"\x0eVehicleService\x12E\n" +
	"\fGetTelemetry\x12\x19.vehicle.TelemetryRequest\x1a\x1a.vehicle.TelemetryResponse\x129\n" +
	"\x06Invoke\x12\x16.vehicle.InvokeRequest\x1a\x17.vehicle.InvokeResponseB,Z*github.com/coba-ai/drone-agent/gen/vehicleb\x06proto3"

var (
	file_vehicle_proto_rawDescOnce sync.Once
	file_vehicle_proto_rawDescData []byte
)

func file_vehicle_proto_rawDescGZIP() []byte {
	file_vehicle_proto_rawDescOnce.Do(func() {
		file_vehicle_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_vehicle_proto_rawDesc), len(file_vehicle_proto_rawDesc)))
	})
	return file_vehicle_proto_rawDescData
}

var file_vehicle_proto_msgTypes = make([]protoimpl.MessageInfo, 5)
var file_vehicle_proto_goTypes = []any{
	(*TelemetryRequest)(nil),  // 0: vehicle.TelemetryRequest
	(*TelemetryResponse)(nil), // 1: vehicle.TelemetryResponse
	(*InvokeRequest)(nil),     // 2: vehicle.InvokeRequest
	(*InvokeResponse)(nil),    // 3: vehicle.InvokeResponse
	nil,                       // 4: vehicle.InvokeRequest.ParamsEntry
}
var file_vehicle_proto_depIdxs = []int32{
	4, // 0: vehicle.InvokeRequest.params:type_name -> vehicle.InvokeRequest.ParamsEntry
	0, // 1: vehicle.VehicleService.GetTelemetry:input_type -> vehicle.TelemetryRequest
	2, // 2: vehicle.VehicleService.Invoke:input_type -> vehicle.InvokeRequest
	1, // 3: vehicle.VehicleService.GetTelemetry:output_type -> vehicle.TelemetryResponse
	3, // 4: vehicle.VehicleService.Invoke:output_type -> vehicle.InvokeResponse
	3, // [3:5] is the sub-list for method output_type
	1, // [1:3] is the sub-list for method input_type
	1, // [1:1] is the sub-list for extension type_name
	1, // [1:1] is the sub-list for extension extendee
	0, // [0:1] is the sub-list for field type_name
}

func init() { file_vehicle_proto_init() }
func file_vehicle_proto_init() {
	if File_vehicle_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_vehicle_proto_rawDesc), len(file_vehicle_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   5,
			NumExtensions: 0,
			NumServices:   1,
		},
		GoTypes:           file_vehicle_proto_goTypes,
		DependencyIndexes: file_vehicle_proto_depIdxs,
		MessageInfos:      file_vehicle_proto_msgTypes,
	}.Build()
	File_vehicle_proto = out.File
	file_vehicle_proto_goTypes = nil
	file_vehicle_proto_depIdxs = nil
}
