package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ExecutorServiceClient is the executor-side view of the RPC surface in
// spec §6: one bidirectional stream plus two unary callbacks.
type ExecutorServiceClient interface {
	Session(ctx context.Context, opts ...grpc.CallOption) (ExecutorService_SessionClient, error)
	UpdateScriptStatus(ctx context.Context, in *ScriptStatus, opts ...grpc.CallOption) (*emptypb.Empty, error)
	UpdateDeviceDesired(ctx context.Context, in *UpdateDevice, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type executorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewExecutorServiceClient builds a client bound to an existing connection.
func NewExecutorServiceClient(cc grpc.ClientConnInterface) ExecutorServiceClient {
	return &executorServiceClient{cc: cc}
}

func (c *executorServiceClient) Session(ctx context.Context, opts ...grpc.CallOption) (ExecutorService_SessionClient, error) {
	stream, err := c.cc.NewStream(ctx, &_ExecutorService_serviceDesc.Streams[0], "/ruleengine.v1.ExecutorService/Session", opts...)
	if err != nil {
		return nil, err
	}
	return &executorServiceSessionClient{stream}, nil
}

func (c *executorServiceClient) UpdateScriptStatus(ctx context.Context, in *ScriptStatus, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, "/ruleengine.v1.ExecutorService/UpdateScriptStatus", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *executorServiceClient) UpdateDeviceDesired(ctx context.Context, in *UpdateDevice, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, "/ruleengine.v1.ExecutorService/UpdateDeviceDesired", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecutorService_SessionClient is the executor's view of its own stream.
type ExecutorService_SessionClient interface {
	Send(*ClientMessage) error
	Recv() (*ServerMessage, error)
	grpc.ClientStream
}

type executorServiceSessionClient struct {
	grpc.ClientStream
}

func (x *executorServiceSessionClient) Send(m *ClientMessage) error {
	return x.ClientStream.SendMsg(m)
}

func (x *executorServiceSessionClient) Recv() (*ServerMessage, error) {
	m := new(ServerMessage)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ExecutorServiceServer is the Session Manager's implementation contract.
type ExecutorServiceServer interface {
	Session(ExecutorService_SessionServer) error
	UpdateScriptStatus(context.Context, *ScriptStatus) (*emptypb.Empty, error)
	UpdateDeviceDesired(context.Context, *UpdateDevice) (*emptypb.Empty, error)
}

// UnimplementedExecutorServiceServer embeds into a concrete server to
// satisfy ExecutorServiceServer without implementing every method.
type UnimplementedExecutorServiceServer struct{}

func (UnimplementedExecutorServiceServer) Session(ExecutorService_SessionServer) error {
	return status.Error(codes.Unimplemented, "method Session not implemented")
}
func (UnimplementedExecutorServiceServer) UpdateScriptStatus(context.Context, *ScriptStatus) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateScriptStatus not implemented")
}
func (UnimplementedExecutorServiceServer) UpdateDeviceDesired(context.Context, *UpdateDevice) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateDeviceDesired not implemented")
}

// RegisterExecutorServiceServer wires srv into s's RPC dispatch table.
func RegisterExecutorServiceServer(s grpc.ServiceRegistrar, srv ExecutorServiceServer) {
	s.RegisterService(&_ExecutorService_serviceDesc, srv)
}

func _ExecutorService_UpdateScriptStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ScriptStatus)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServiceServer).UpdateScriptStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ruleengine.v1.ExecutorService/UpdateScriptStatus"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServiceServer).UpdateScriptStatus(ctx, req.(*ScriptStatus))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutorService_UpdateDeviceDesired_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateDevice)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServiceServer).UpdateDeviceDesired(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ruleengine.v1.ExecutorService/UpdateDeviceDesired"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServiceServer).UpdateDeviceDesired(ctx, req.(*UpdateDevice))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutorService_Session_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ExecutorServiceServer).Session(&executorServiceSessionServer{stream})
}

// ExecutorService_SessionServer is the server's view of one executor stream.
type ExecutorService_SessionServer interface {
	Send(*ServerMessage) error
	Recv() (*ClientMessage, error)
	grpc.ServerStream
}

type executorServiceSessionServer struct {
	grpc.ServerStream
}

func (x *executorServiceSessionServer) Send(m *ServerMessage) error {
	return x.ServerStream.SendMsg(m)
}

func (x *executorServiceSessionServer) Recv() (*ClientMessage, error) {
	m := new(ClientMessage)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

var _ExecutorService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "ruleengine.v1.ExecutorService",
	HandlerType: (*ExecutorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "UpdateScriptStatus",
			Handler:    _ExecutorService_UpdateScriptStatus_Handler,
		},
		{
			MethodName: "UpdateDeviceDesired",
			Handler:    _ExecutorService_UpdateDeviceDesired_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Session",
			Handler:       _ExecutorService_Session_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "ruleengine/executor.proto",
}
