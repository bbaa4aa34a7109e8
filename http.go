package errstatus

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const contentType = "application/json"

// HandlerFunc type is an adapter to allow the use of ordinary functions as HTTP handlers.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ServeHTTP serves a JSON error response back to client if the Handler would return an error.
//
// The HTTP status is derived from the status code, unless the error reports
// its own with a StatusCode() int method.
//
// Note of caution: Masking or otherwise distinguishing details safe to share
// to end client is an exercise left to the implementor.
func (fn HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	verr := fn(w, r)
	if verr == nil {
		return
	}

	code, _ := codeOf(verr)
	statusCode := HTTPStatus(code)

	var sterr hasStatusCode
	if errors.As(verr, &sterr) {
		statusCode = sterr.StatusCode()
	}

	b, err := ToJSON(verr)
	writeJSON(w, statusCode, b, err)
}

// GatewayErrorHandler is a runtime.ErrorHandlerFunc for grpc-gateway that
// writes gRPC errors as a JSON encoded Status, details included.
//
// Install it with runtime.WithErrorHandler(errstatus.GatewayErrorHandler).
func GatewayErrorHandler(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, err error) {
	st := status.Convert(err)

	var b []byte
	s, cerr := FromGRPCStatus(st)
	switch {
	case cerr == nil:
		b, err = Marshal(s)
	case errors.Is(cerr, ErrNoVariant):
		b, err = marshalProto(&statuspb.Status{Code: int32(st.Code()), Message: st.Message()})
	default:
		handler.Handle(fmt.Errorf("errstatus: writing gateway error without details: %w", cerr))
		b, err = marshalProto(&statuspb.Status{Code: int32(st.Code()), Message: st.Message()})
	}

	writeJSON(w, HTTPStatus(st.Code()), b, err)
}

var _ runtime.ErrorHandlerFunc = GatewayErrorHandler

func writeJSON(w http.ResponseWriter, statusCode int, b []byte, encErr error) {
	w.Header().Set("Content-Type", contentType)

	if encErr != nil {
		handler.Handle(fmt.Errorf("failed to encode error to JSON: %w", encErr))

		b, encErr = marshalProto(&statuspb.Status{
			Code:    int32(codes.Internal),
			Message: "Internal Server Error: failed to encode error response",
		})
		if encErr != nil {
			handler.Handle(fmt.Errorf("failed to encode internal server error: %w", encErr))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		statusCode = http.StatusInternalServerError
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		handler.Handle(fmt.Errorf("failed to write JSON encoded error to ResponseWriter: %w", err))
	}
}

type hasStatusCode interface {
	StatusCode() int
}
