package errstatus

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClaudiaJ/errstatus/details"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
)

var errUnknown = errors.New("unknown error")

func sentinel(c codes.Code) error {
	return &errCodeError{error: errUnknown, Code: c}
}

// Known Status Code errors for use as target of errors.Is().
//
// Prefer constructing new errors with New constructor.
var (
	ErrCanceled           = sentinel(codes.Canceled)
	ErrUnknown            = sentinel(codes.Unknown)
	ErrInvalidArgument    = sentinel(codes.InvalidArgument)
	ErrDeadlineExceeded   = sentinel(codes.DeadlineExceeded)
	ErrNotFound           = sentinel(codes.NotFound)
	ErrAlreadyExists      = sentinel(codes.AlreadyExists)
	ErrPermissionDenied   = sentinel(codes.PermissionDenied)
	ErrResourceExhausted  = sentinel(codes.ResourceExhausted)
	ErrFailedPrecondition = sentinel(codes.FailedPrecondition)
	ErrAborted            = sentinel(codes.Aborted)
	ErrOutOfRange         = sentinel(codes.OutOfRange)
	ErrUnimplemented      = sentinel(codes.Unimplemented)
	ErrInternal           = sentinel(codes.Internal)
	ErrUnavailable        = sentinel(codes.Unavailable)
	ErrDataLoss           = sentinel(codes.DataLoss)
	ErrUnauthenticated    = sentinel(codes.Unauthenticated)
)

// New creates a new error from a Status Code, wrapped with details in order.
// Resulting errors can be checked with errors.Is against the ErrX values.
func New(code codes.Code, msg string, details ...Details) error {
	return WithDetails(&errCodeError{Code: code, error: errors.New(msg)}, details...)
}

// errCodeError gives the error it wraps a status code.
type errCodeError struct {
	error
	codes.Code
}

// Error prefixes the wrapped message with the Go name of the code.
func (e *errCodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.error)
}

// Is matches any errCodeError of the same code, so the ErrX values work as
// errors.Is targets whatever the message.
func (e *errCodeError) Is(target error) bool {
	v, ok := target.(*errCodeError)
	return ok && v.Code == e.Code
}

// GRPCStatus lets status.FromError see the code. The message omits the code
// prefix.
func (e *errCodeError) GRPCStatus() *status.Status {
	return status.New(e.Code, e.error.Error())
}

func (e *errCodeError) Unwrap() error {
	return e.error
}

// detailed is implemented by every error carrying one detail message.
type detailed interface {
	detail() proto.Message
}

// carrier attaches a single detail message to the error it wraps. The
// exported error interfaces are implemented on top of it.
type carrier[M proto.Message] struct {
	error
	msg M
}

func carry[M proto.Message](err error, msg M) carrier[M] {
	return carrier[M]{error: err, msg: msg}
}

func (c carrier[M]) Unwrap() error         { return c.error }
func (c carrier[M]) detail() proto.Message { return c.msg }

// BadRequestError is an error indicating the client had made a bad request,
// and includes details of each violation of the field validation rules not
// satisfied by the request.
type BadRequestError interface {
	error
	WithViolation(violation ...details.FieldViolation) BadRequestError
	GetViolations() []details.FieldViolation
}

var _ BadRequestError = (*errBadRequest)(nil)

type errBadRequest struct {
	carrier[*errdetails.BadRequest]
}

// WithViolation appends field violations to a bad request error.
func (e *errBadRequest) WithViolation(violations ...details.FieldViolation) BadRequestError {
	e.msg.FieldViolations = append(e.msg.FieldViolations, details.All(violations, details.AsFieldViolation)...)
	return e
}

// GetViolations gets all the FieldViolations on the BadRequestError.
func (e *errBadRequest) GetViolations() []details.FieldViolation {
	return upcast[details.FieldViolation](e.msg.GetFieldViolations())
}

// DebugError is an error including debug information indicating where an error
// occurred and any additional details provided by the server.
type DebugError interface {
	error
	details.DebugInfo
}

var _ DebugError = (*errDebugInfo)(nil)

type errDebugInfo struct {
	carrier[*errdetails.DebugInfo]
}

func (e *errDebugInfo) GetDetail() string         { return e.msg.GetDetail() }
func (e *errDebugInfo) GetStackEntries() []string { return e.msg.GetStackEntries() }

// CausedError is an error describing the cause of an error with structured details.
type CausedError interface {
	error
	details.Info
}

var _ CausedError = (*errInfo)(nil)

type errInfo struct {
	carrier[*errdetails.ErrorInfo]
}

func (e *errInfo) GetReason() string              { return e.msg.GetReason() }
func (e *errInfo) GetDomain() string              { return e.msg.GetDomain() }
func (e *errInfo) GetMetadata() map[string]string { return e.msg.GetMetadata() }

// FailedPreconditionError is an error describing what preconditions have failed.
//
// An example being a Terms of Service acknowledgement that may be required
// before using a particular API or service, responses from the service will
// indicate that the precondition has not been met.
type FailedPreconditionError interface {
	error
	WithViolation(...details.PreconditionViolation) FailedPreconditionError
	GetViolations() []details.PreconditionViolation
}

var _ FailedPreconditionError = (*errPreconditionFailed)(nil)

type errPreconditionFailed struct {
	carrier[*errdetails.PreconditionFailure]
}

// WithViolation adds PreconditionViolations to the FailedPreconditionError.
func (e *errPreconditionFailed) WithViolation(violations ...details.PreconditionViolation) FailedPreconditionError {
	e.msg.Violations = append(e.msg.Violations, details.All(violations, details.AsPreconditionViolation)...)
	return e
}

// GetViolations gets all the PreconditionViolations on the FailedPreconditionError.
func (e *errPreconditionFailed) GetViolations() []details.PreconditionViolation {
	return upcast[details.PreconditionViolation](e.msg.GetViolations())
}

// FailedQuotaError is an error describing a quota check failed.
type FailedQuotaError interface {
	error
	WithViolation(...details.QuotaViolation) FailedQuotaError
	GetViolations() []details.QuotaViolation
}

var _ FailedQuotaError = (*errQuotaFailure)(nil)

type errQuotaFailure struct {
	carrier[*errdetails.QuotaFailure]
}

// WithViolation adds quota violations to the FailedQuotaError.
func (e *errQuotaFailure) WithViolation(violations ...details.QuotaViolation) FailedQuotaError {
	e.msg.Violations = append(e.msg.Violations, details.All(violations, details.AsQuotaViolation)...)
	return e
}

// GetViolations gets all the QuotaViolations on the FailedQuotaError.
func (e *errQuotaFailure) GetViolations() []details.QuotaViolation {
	return upcast[details.QuotaViolation](e.msg.GetViolations())
}

// ResourceInfoError is an error that describes the resource that is being accessed.
type ResourceInfoError interface {
	error
	details.ResourceInfo
}

var _ ResourceInfoError = (*errResourceInfo)(nil)

type errResourceInfo struct {
	carrier[*errdetails.ResourceInfo]
}

func (e *errResourceInfo) GetResourceType() string { return e.msg.GetResourceType() }
func (e *errResourceInfo) GetResourceName() string { return e.msg.GetResourceName() }
func (e *errResourceInfo) GetOwner() string        { return e.msg.GetOwner() }
func (e *errResourceInfo) GetDescription() string  { return e.msg.GetDescription() }

// RetriableError is an error that describes when a client may retry a failed request.
//
// The retry delay represents a minimum duration in which the client is recommended to wait.
// It is always recommended the client should use exponential backoff when retrying.
type RetriableError interface {
	error
	WithDelay(time.Duration) RetriableError
	GetRetryDelay() time.Duration
}

var _ RetriableError = (*errRetryInfo)(nil)

type errRetryInfo struct {
	carrier[*errdetails.RetryInfo]
}

// WithDelay sets a recommended retry delay on the RetriableError.
func (e *errRetryInfo) WithDelay(d time.Duration) RetriableError {
	e.msg.RetryDelay = durationpb.New(d)
	return e
}

// GetRetryDelay gets the recommended retry delay on the RetriableError.
func (e *errRetryInfo) GetRetryDelay() time.Duration {
	return e.msg.GetRetryDelay().AsDuration()
}

// upcast views a slice of messages as a slice of the getter interface they
// implement.
func upcast[I any, M any](ms []M) []I {
	out := make([]I, len(ms))
	for i, m := range ms {
		out[i] = any(m).(I)
	}
	return out
}
