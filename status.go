package errstatus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ClaudiaJ/errstatus/details"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

var (
	// ErrInvalidStatus is matched by every error reporting a Status that
	// violates its kind's code or detail constraints.
	ErrInvalidStatus = errors.New("errstatus: invalid status")

	// ErrCodeNotPermitted is matched when a status code is outside the set
	// permitted for the kind.
	ErrCodeNotPermitted = errors.New("errstatus: status code not permitted")

	// ErrDetailKind is matched when a detail is not of the type bound to the kind,
	// or is not one of the detail types this package knows.
	ErrDetailKind = errors.New("errstatus: detail type not bound to kind")

	// ErrNoVariant is returned when no kind of Status permits a status code,
	// e.g. OK, CANCELLED and UNIMPLEMENTED.
	ErrNoVariant = errors.New("errstatus: no status variant for code")

	// ErrUnknownCode is returned when a status name is not a canonical code.
	ErrUnknownCode = errors.New("errstatus: unknown status code")

	// ErrStatusMismatch is matched when the numeric code and the status name
	// of an encoded Status disagree.
	ErrStatusMismatch = errors.New("errstatus: code and status disagree")
)

// Status pairs a status code with the details bound to one kind.
//
// The set of implementations is closed: it is exactly the seven variant types
// of this package, one per Kind, so a type switch over them is exhaustive.
// Values are immutable once constructed; accessors return copies.
type Status interface {
	// Kind reports which variant the Status is.
	Kind() Kind

	// Code reports the status code.
	Code() codes.Code

	// Message reports the developer-facing error message.
	Message() string

	// StatusName reports the canonical name of the status code, e.g. "NOT_FOUND".
	StatusName() string

	// DetailMessages returns copies of the details as protobuf messages.
	DetailMessages() []proto.Message

	// Validate reports whether the code is permitted for the kind and every
	// detail satisfies its constraints.
	Validate() error

	// Proto converts the Status to a google.rpc.Status message.
	Proto() (*statuspb.Status, error)

	// GRPCStatus converts the Status to a gRPC Status with details attached.
	GRPCStatus() *status.Status

	// Err converts the Status to an error wrapped with its code and details.
	Err() error

	json.Marshaler

	isStatus()
}

// envelope holds the fields shared by every variant.
type envelope struct {
	code    codes.Code
	message string
}

// Code reports the status code.
func (e envelope) Code() codes.Code { return e.code }

// Message reports the developer-facing error message.
func (e envelope) Message() string { return e.message }

// StatusName reports the canonical name of the status code.
func (e envelope) StatusName() string { return CodeName(e.code) }

func (envelope) isStatus() {}

// invalidError describes why a Status was rejected.
type invalidError struct {
	kind   Kind
	causes []error
	msg    string
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("errstatus: invalid %s status: %s", e.kind, e.msg)
}

// Is matches ErrInvalidStatus and every more specific cause.
func (e *invalidError) Is(target error) bool {
	if target == ErrInvalidStatus {
		return true
	}
	for _, c := range e.causes {
		if target == c {
			return true
		}
	}
	return false
}

// invalidStatus reports violations as an INVALID_ARGUMENT BadRequestError.
func invalidStatus(kind Kind, violations []details.FieldViolation, causes ...error) error {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.GetField() + ": " + v.GetDescription()
	}

	return WithBadRequest(&errCodeError{
		error: &invalidError{kind: kind, causes: causes, msg: strings.Join(msgs, "; ")},
		Code:  codes.InvalidArgument,
	}, violations...)
}

func validateVariant[D proto.Message](kind Kind, code codes.Code, ds []D, check func(D) error) error {
	var violations []details.FieldViolation
	var causes []error

	if !kind.Permits(code) {
		names := make([]string, 0, len(permittedCodes[kind]))
		for _, c := range permittedCodes[kind] {
			names = append(names, CodeName(c))
		}
		violations = append(violations, &details.FieldError{
			Field:       "status",
			Description: fmt.Sprintf("%s is not permitted, must be one of %s", CodeName(code), strings.Join(names, ", ")),
		})
		causes = append(causes, ErrCodeNotPermitted)
	}

	for i, d := range ds {
		path := fmt.Sprintf("details[%d]", i)
		if !d.ProtoReflect().IsValid() {
			violations = append(violations, &details.FieldError{Field: path, Description: "is required"})
			continue
		}
		for _, fe := range details.FieldErrors(details.Prefix(path, check(d))) {
			violations = append(violations, fe)
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return invalidStatus(kind, violations, causes...)
}

func cloneAll[D proto.Message](in []D) []D {
	out := make([]D, len(in))
	for i, d := range in {
		out[i] = proto.Clone(d).(D)
	}
	return out
}

func messagesOf[D proto.Message](in []D) []proto.Message {
	out := make([]proto.Message, len(in))
	for i, d := range in {
		out[i] = proto.Clone(d)
	}
	return out
}

// toProto encodes a Status after checking it, so a zero value or otherwise
// invalid Status never reaches the wire.
func toProto[D proto.Message](s Status, ds []D) (*statuspb.Status, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := &statuspb.Status{
		Code:    int32(s.Code()),
		Message: s.Message(),
		Details: make([]*anypb.Any, 0, len(ds)),
	}
	for i, d := range ds {
		a, err := anypb.New(d)
		if err != nil {
			return nil, fmt.Errorf("errstatus: encoding details[%d]: %w", i, err)
		}
		p.Details = append(p.Details, a)
	}
	return p, nil
}

// grpcStatus reports a Status that cannot be encoded to the ErrorHandler and
// returns a detail-less status in its place.
func grpcStatus(s Status) *status.Status {
	p, err := s.Proto()
	if err != nil {
		handler.Handle(fmt.Errorf("errstatus: returning status without details: %w", err))
		return status.New(fallbackCode(s.Code()), s.Message())
	}
	return status.FromProto(p)
}

// fallbackCode keeps an invalid Status from reading as success.
func fallbackCode(c codes.Code) codes.Code {
	if c == codes.OK {
		return codes.Unknown
	}
	return c
}

// castAll asserts every message is of the detail type D bound to kind.
func castAll[D proto.Message](kind Kind, msgs []proto.Message) ([]D, []details.FieldViolation) {
	out := make([]D, 0, len(msgs))
	var bad []details.FieldViolation
	for i, m := range msgs {
		d, ok := m.(D)
		if !ok {
			bad = append(bad, &details.FieldError{
				Field:       fmt.Sprintf("details[%d]", i),
				Description: fmt.Sprintf("%s is not permitted, must be google.rpc.%s", m.ProtoReflect().Descriptor().FullName(), kind),
			})
			continue
		}
		out = append(out, d)
	}
	return out, bad
}
