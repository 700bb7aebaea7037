package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "slidr.Slidr"

// SlidrServer is the server API of the slidr.Slidr service. Messages are
// protobuf well-known types, so no generated code is required.
type SlidrServer interface {
	Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListProjects(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.ListValue, error)
	GetProject(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateProject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateProject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	DeleteProject(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.StringValue, error)
}

// FullMethod returns the "/service/method" path of a slidr.Slidr method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a SlidrServer method to a grpc.MethodDesc handler. The result
// type stays unnamed so it converts to the handler type of MethodDesc.
func unary[Req any, Resp any](
	method string,
	call func(SlidrServer, context.Context, *Req) (*Resp, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SlidrServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SlidrServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SlidrServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Signup", Handler: unary("Signup", SlidrServer.Signup)},
		{MethodName: "Login", Handler: unary("Login", SlidrServer.Login)},
		{MethodName: "ListProjects", Handler: unary("ListProjects", SlidrServer.ListProjects)},
		{MethodName: "GetProject", Handler: unary("GetProject", SlidrServer.GetProject)},
		{MethodName: "CreateProject", Handler: unary("CreateProject", SlidrServer.CreateProject)},
		{MethodName: "UpdateProject", Handler: unary("UpdateProject", SlidrServer.UpdateProject)},
		{MethodName: "DeleteProject", Handler: unary("DeleteProject", SlidrServer.DeleteProject)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "slidr.proto",
}

// RegisterSlidrServer registers srv on s.
func RegisterSlidrServer(s grpc.ServiceRegistrar, srv SlidrServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Client calls the slidr.Slidr service over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Signup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("Signup"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("Login"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProjects(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, FullMethod("ListProjects"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("GetProject"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("CreateProject"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProject(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("UpdateProject"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProject(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, FullMethod("DeleteProject"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
