package errstatus

import (
	"time"

	"github.com/ClaudiaJ/errstatus/details"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/durationpb"
)

// Details are just error wrappers.
type Details interface {
	Wrap(error) error
}

// WithDetails wraps err with each of details in turn, so the last is
// outermost.
func WithDetails(err error, details ...Details) error {
	for _, d := range details {
		err = d.Wrap(err)
	}
	return err
}

var _ Details = wrapperFunc(nil)

type wrapperFunc func(err error) error

func (fn wrapperFunc) Wrap(err error) error {
	return fn(err)
}

// wrapWith lifts one of the WithX functions into Details.
func wrapWith[A any, E error](with func(error, A) E, arg A) Details {
	return wrapperFunc(func(err error) error {
		return with(err, arg)
	})
}

// Code wraps an external error with a specified Status Code.
// Note that while it is possible to wrap an error with multiple status codes,
// only the outer layer will be considered the resulting Status Code when unwrapped.
func Code(code codes.Code) Details {
	return wrapperFunc(func(err error) error {
		return &errCodeError{error: err, Code: code}
	})
}

// BadRequest provides a Details wrapper to enrich errors with BadRequestError details.
func BadRequest(violations ...details.FieldViolation) Details {
	return wrapWith(func(err error, vs []details.FieldViolation) BadRequestError {
		return WithBadRequest(err, vs...)
	}, violations)
}

// WithBadRequest wraps an error with Bad Request details having optional field violations.
func WithBadRequest(err error, violations ...details.FieldViolation) BadRequestError {
	return &errBadRequest{carry(err, &errdetails.BadRequest{
		FieldViolations: details.All(violations, details.AsFieldViolation),
	})}
}

// Debug provides a Details wrapper to enrich errors with DebugError details.
func Debug(info details.DebugInfo) Details {
	return wrapWith(WithDebug, info)
}

// WithDebug wraps an error with additional debugging info.
func WithDebug(err error, info details.DebugInfo) DebugError {
	return &errDebugInfo{carry(err, details.AsDebugInfo(info))}
}

// Cause provides a Details wrapper to enrich errors with CausedError details.
func Cause(info details.Info) Details {
	return wrapWith(WithCause, info)
}

// WithCause wraps an error with information about the cause of the error.
//
// The reason and metadata keys are checked when the error is converted to a
// Status, see details.ValidateInfo.
func WithCause(err error, info details.Info) CausedError {
	return &errInfo{carry(err, details.AsInfo(info))}
}

// PreconditionFailure provides a Details wrapper to enrich errors with FailedPreconditionError details.
func PreconditionFailure(violations ...details.PreconditionViolation) Details {
	return wrapWith(func(err error, vs []details.PreconditionViolation) FailedPreconditionError {
		return WithPreconditionFailure(err, vs...)
	}, violations)
}

// WithPreconditionFailure wraps an error describing what preconditions have failed to be met.
func WithPreconditionFailure(err error, violations ...details.PreconditionViolation) FailedPreconditionError {
	return &errPreconditionFailed{carry(err, &errdetails.PreconditionFailure{
		Violations: details.All(violations, details.AsPreconditionViolation),
	})}
}

// QuotaFailure provides a Details wrapper to enrich errors with FailedQuotaError details.
func QuotaFailure(violations ...details.QuotaViolation) Details {
	return wrapWith(func(err error, vs []details.QuotaViolation) FailedQuotaError {
		return WithQuotaFailure(err, vs...)
	}, violations)
}

// WithQuotaFailure wraps an error describing how a quota check has failed.
func WithQuotaFailure(err error, violations ...details.QuotaViolation) FailedQuotaError {
	return &errQuotaFailure{carry(err, &errdetails.QuotaFailure{
		Violations: details.All(violations, details.AsQuotaViolation),
	})}
}

// RetryDelay provides a Details wrapper to enrich errors with RetriableError details.
func RetryDelay(delay time.Duration) Details {
	return wrapWith(WithRetryDelay, delay)
}

// WithRetryDelay wraps an error indicating that a client may retry a failed
// request after a delay recommended here.
//
// It is always recommended that clients should use exponential backoff when
// retrying, see HintedBackOff.
func WithRetryDelay(err error, delay time.Duration) RetriableError {
	return &errRetryInfo{carry(err, &errdetails.RetryInfo{RetryDelay: durationpb.New(delay)})}
}

// Resource provides a Details wrapper to enrich errors with ResourceInfoError details.
func Resource(info details.ResourceInfo) Details {
	return wrapWith(WithResource, info)
}

// WithResource wraps an error with information about the resource that is being accessed.
func WithResource(err error, info details.ResourceInfo) ResourceInfoError {
	return &errResourceInfo{carry(err, details.AsResourceInfo(info))}
}
