// Package grpcserver exposes the slidr service over gRPC.
package grpcserver

import (
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/patric-chuzhbe/slidr/internal/grpcserver/interceptor"
)

// New builds a gRPC server with the recovery and logging interceptors and
// handler registered as slidr.Slidr.
func New(handler SlidrServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptor.UnaryLoggingInterceptor(nil),
			interceptor.UnaryRecoveryInterceptor(),
		),
	)
	RegisterSlidrServer(server, handler)

	return server
}

// NewGRPCServer is New plus a TCP listener on addr.
func NewGRPCServer(addr string, handler SlidrServer) (*grpc.Server, net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("in internal/grpcserver/server.go/NewGRPCServer(): error while `net.Listen()` calling: %w", err)
	}

	return New(handler), lis, nil
}
