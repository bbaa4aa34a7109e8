package errstatus

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// assert UnaryServerInterceptor is of the same type UnaryServerInterceptor
var _ grpc.UnaryServerInterceptor = UnaryServerInterceptor

// UnaryServerInterceptor transcribes wrapped errors with details into gRPC Status.
func UnaryServerInterceptor(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	resp, err = handler(ctx, req)

	return resp, translateError(err)
}

// assert StreamServerInterceptor is of the same type StreamServerInterceptor
var _ grpc.StreamServerInterceptor = StreamServerInterceptor

// StreamServerInterceptor transcribes wrapped errors with details into gRPC Status.
func StreamServerInterceptor(srv interface{}, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	return translateError(handler(srv, ss))
}

// assert UnaryClientInterceptor is of the same type UnaryClientInterceptor
var _ grpc.UnaryClientInterceptor = UnaryClientInterceptor

// UnaryClientInterceptor turns a received gRPC Status back into a wrapped
// error, such that errors.As and errors.Is are satisfied by the error
// interface types of its Status.
//
// Statuses that do not convert are returned unchanged.
func UnaryClientInterceptor(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	s, cerr := FromGRPCStatus(st)
	if cerr != nil {
		if !errors.Is(cerr, ErrNoVariant) {
			handler.Handle(fmt.Errorf("errstatus: %s: keeping unconverted status: %w", method, cerr))
		}
		return err
	}
	return s.Err()
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	s, cerr := FromError(err)
	if cerr == nil {
		return s.GRPCStatus().Err()
	}
	if !errors.Is(cerr, ErrNoVariant) {
		handler.Handle(fmt.Errorf("errstatus: returning status without details: %w", cerr))
	}

	// become a Status one way or another
	code, msg := codeOf(err)
	return status.New(code, msg).Err()
}
