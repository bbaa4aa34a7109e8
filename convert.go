package errstatus

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// statusError is a neat little trick used in gRPC status module to enable
// errors to self-describe a conversion to Status.
type statusError interface {
	error
	GRPCStatus() *status.Status
}

// FromError folds a wrapped error into a single Status.
//
// The code is that of the outermost code in the chain (Unknown if none).
// The kind is that of the outermost detail whose kind permits the code, and
// every detail of that kind is kept in chain order, outermost first. Details
// of other kinds cannot be carried by the Status; they are reported to the
// ErrorHandler and dropped. An error raised by Status.Err without details
// keeps the kind of that Status.
//
// Errors received from gRPC whose status already carries details are
// converted with FromGRPCStatus.
func FromError(err error) (Status, error) {
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoVariant, CodeName(codes.OK))
	}

	var sterr statusError
	if errors.As(err, &sterr) {
		if st := sterr.GRPCStatus(); len(st.Proto().GetDetails()) > 0 {
			return FromGRPCStatus(st)
		}
	}

	code, msg := codeOf(err)

	var found []proto.Message
	hint := Kind(0)
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e := e.(type) {
		case detailed:
			found = append(found, e.detail())
		case *kindHint:
			if hint == 0 {
				hint = e.kind
			}
		}
	}

	kind, ok := selectKind(code, hint, found)
	if !ok {
		if len(found) > 0 {
			handler.Handle(fmt.Errorf("errstatus: %s has no status variant, %s details dropped",
				CodeName(code), strings.Join(detailNames(found), ", ")))
		}
		return nil, fmt.Errorf("%w: %s", ErrNoVariant, CodeName(code))
	}

	var kept []proto.Message
	var dropped []string
	for _, m := range found {
		if k, _ := kindOf(m); k == kind {
			kept = append(kept, m)
			continue
		}
		dropped = append(dropped, string(m.ProtoReflect().Descriptor().Name()))
	}
	if len(dropped) > 0 {
		handler.Handle(fmt.Errorf("errstatus: %s status cannot carry %s details, dropped",
			kind, strings.Join(dropped, ", ")))
	}

	return build(kind, code, msg, kept)
}

// selectKind picks the kind of the outermost detail permitting the code,
// then the hinted kind, falling back to the first kind permitting the code.
func selectKind(code codes.Code, hint Kind, found []proto.Message) (Kind, bool) {
	for _, m := range found {
		if k, ok := kindOf(m); ok && k.Permits(code) {
			return k, true
		}
	}
	if hint.Permits(code) {
		return hint, true
	}
	kinds := KindsFor(code)
	if len(kinds) == 0 {
		return 0, false
	}
	return kinds[0], true
}

func detailNames(msgs []proto.Message) []string {
	names := make([]string, len(msgs))
	for i, m := range msgs {
		names[i] = string(m.ProtoReflect().Descriptor().Name())
	}
	return names
}

// codeOf reports the outermost code of an error and the message it wraps.
func codeOf(err error) (codes.Code, string) {
	if err == nil {
		return codes.OK, ""
	}

	var ce *errCodeError
	if errors.As(err, &ce) {
		return ce.Code, ce.error.Error()
	}

	var sterr statusError
	if errors.As(err, &sterr) {
		st := sterr.GRPCStatus()
		return st.Code(), st.Message()
	}

	return codes.Unknown, err.Error()
}
