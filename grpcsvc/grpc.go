// Package grpcsvc exposes decode and query as a gRPC service. Reports cross
// the wire as JSON (model.Report); requests use protobuf well-known wrapper
// types so the package needs no protoc/codegen toolchain.
//
// Proto definition: securitytxt.proto.
package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName      = "solsec.securitytxt.v1.SecurityTxt"
	methodDecodeFull = "/" + serviceName + "/Decode"
	methodQueryFull  = "/" + serviceName + "/Query"
)

// SecurityTxtServer is the server API.
//
// Decode accepts an entire binary's bytes and returns a JSON report.
// Query accepts a program address and returns a JSON report.
type SecurityTxtServer interface {
	Decode(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Query(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedSecurityTxtServer can be embedded for forward compatibility.
type UnimplementedSecurityTxtServer struct{}

func (UnimplementedSecurityTxtServer) Decode(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Decode not implemented")
}

func (UnimplementedSecurityTxtServer) Query(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Query not implemented")
}

// RegisterSecurityTxtServer registers the service on a gRPC server.
func RegisterSecurityTxtServer(s grpc.ServiceRegistrar, srv SecurityTxtServer) {
	s.RegisterService(&SecurityTxt_ServiceDesc, srv)
}

// SecurityTxtClient is the client API.
type SecurityTxtClient interface {
	Decode(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Query(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type securityTxtClient struct{ cc grpc.ClientConnInterface }

func NewSecurityTxtClient(cc grpc.ClientConnInterface) SecurityTxtClient {
	return &securityTxtClient{cc: cc}
}

func (c *securityTxtClient) Decode(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodDecodeFull, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *securityTxtClient) Query(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodQueryFull, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _SecurityTxt_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecurityTxtServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDecodeFull}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecurityTxtServer).Decode(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _SecurityTxt_Query_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecurityTxtServer).Query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodQueryFull}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecurityTxtServer).Query(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// SecurityTxt_ServiceDesc is the grpc.ServiceDesc for the service.
var SecurityTxt_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SecurityTxtServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Decode", Handler: _SecurityTxt_Decode_Handler},
		{MethodName: "Query", Handler: _SecurityTxt_Query_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "securitytxt.proto",
}
