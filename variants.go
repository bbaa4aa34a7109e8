package errstatus

import (
	"fmt"

	"github.com/ClaudiaJ/errstatus/details"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

var (
	_ Status = (*BadRequestStatus)(nil)
	_ Status = (*PreconditionFailureStatus)(nil)
	_ Status = (*ErrorInfoStatus)(nil)
	_ Status = (*ResourceInfoStatus)(nil)
	_ Status = (*QuotaFailureStatus)(nil)
	_ Status = (*DebugInfoStatus)(nil)
	_ Status = (*RetryInfoStatus)(nil)
)

// BadRequestStatus reports a request that failed field validation.
// It permits INVALID_ARGUMENT and OUT_OF_RANGE.
type BadRequestStatus struct {
	envelope
	details []*errdetails.BadRequest
}

// NewBadRequestStatus validates and copies its arguments into a BadRequestStatus.
func NewBadRequestStatus(code codes.Code, message string, badRequests ...*errdetails.BadRequest) (*BadRequestStatus, error) {
	if err := validateVariant(KindBadRequest, code, badRequests, checkBadRequest); err != nil {
		return nil, err
	}
	return &BadRequestStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(badRequests),
	}, nil
}

func checkBadRequest(d *errdetails.BadRequest) error {
	var result *multierror.Error
	for i, v := range d.GetFieldViolations() {
		if err := details.ValidateFieldViolation(v); err != nil {
			result = multierror.Append(result, details.Prefix(fmt.Sprintf("fieldViolations[%d]", i), err))
		}
	}
	return result.ErrorOrNil()
}

// Kind reports KindBadRequest.
func (s *BadRequestStatus) Kind() Kind { return KindBadRequest }

// BadRequests returns copies of the details.
func (s *BadRequestStatus) BadRequests() []*errdetails.BadRequest { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *BadRequestStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *BadRequestStatus) Validate() error {
	return validateVariant(KindBadRequest, s.code, s.details, checkBadRequest)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *BadRequestStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *BadRequestStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying BadRequestError.
func (s *BadRequestStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.BadRequest) error {
		return &errBadRequest{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *BadRequestStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only BadRequest statuses.
func (s *BadRequestStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindBadRequest)
	if err != nil {
		return err
	}
	*s = *st.(*BadRequestStatus)
	return nil
}

// PreconditionFailureStatus reports preconditions the system state did not meet.
// It permits FAILED_PRECONDITION.
type PreconditionFailureStatus struct {
	envelope
	details []*errdetails.PreconditionFailure
}

// NewPreconditionFailureStatus validates and copies its arguments into a PreconditionFailureStatus.
func NewPreconditionFailureStatus(code codes.Code, message string, failures ...*errdetails.PreconditionFailure) (*PreconditionFailureStatus, error) {
	if err := validateVariant(KindPreconditionFailure, code, failures, checkPreconditionFailure); err != nil {
		return nil, err
	}
	return &PreconditionFailureStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(failures),
	}, nil
}

func checkPreconditionFailure(d *errdetails.PreconditionFailure) error {
	var result *multierror.Error
	for i, v := range d.GetViolations() {
		if err := details.ValidatePreconditionViolation(v); err != nil {
			result = multierror.Append(result, details.Prefix(fmt.Sprintf("violations[%d]", i), err))
		}
	}
	return result.ErrorOrNil()
}

// Kind reports KindPreconditionFailure.
func (s *PreconditionFailureStatus) Kind() Kind { return KindPreconditionFailure }

// PreconditionFailures returns copies of the details.
func (s *PreconditionFailureStatus) PreconditionFailures() []*errdetails.PreconditionFailure {
	return cloneAll(s.details)
}

// DetailMessages returns copies of the details as protobuf messages.
func (s *PreconditionFailureStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *PreconditionFailureStatus) Validate() error {
	return validateVariant(KindPreconditionFailure, s.code, s.details, checkPreconditionFailure)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *PreconditionFailureStatus) Proto() (*statuspb.Status, error) {
	return toProto(s, s.details)
}

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *PreconditionFailureStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying FailedPreconditionError.
func (s *PreconditionFailureStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.PreconditionFailure) error {
		return &errPreconditionFailed{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *PreconditionFailureStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only PreconditionFailure statuses.
func (s *PreconditionFailureStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindPreconditionFailure)
	if err != nil {
		return err
	}
	*s = *st.(*PreconditionFailureStatus)
	return nil
}

// ErrorInfoStatus reports the structured cause of an error.
// It permits UNAUTHENTICATED, PERMISSION_DENIED and ABORTED.
type ErrorInfoStatus struct {
	envelope
	details []*errdetails.ErrorInfo
}

// NewErrorInfoStatus validates and copies its arguments into an ErrorInfoStatus.
func NewErrorInfoStatus(code codes.Code, message string, infos ...*errdetails.ErrorInfo) (*ErrorInfoStatus, error) {
	if err := validateVariant(KindErrorInfo, code, infos, checkErrorInfo); err != nil {
		return nil, err
	}
	return &ErrorInfoStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(infos),
	}, nil
}

func checkErrorInfo(d *errdetails.ErrorInfo) error { return details.ValidateInfo(d) }

// Kind reports KindErrorInfo.
func (s *ErrorInfoStatus) Kind() Kind { return KindErrorInfo }

// ErrorInfos returns copies of the details.
func (s *ErrorInfoStatus) ErrorInfos() []*errdetails.ErrorInfo { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *ErrorInfoStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *ErrorInfoStatus) Validate() error {
	return validateVariant(KindErrorInfo, s.code, s.details, checkErrorInfo)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *ErrorInfoStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *ErrorInfoStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying CausedError.
func (s *ErrorInfoStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.ErrorInfo) error {
		return &errInfo{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *ErrorInfoStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only ErrorInfo statuses.
func (s *ErrorInfoStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindErrorInfo)
	if err != nil {
		return err
	}
	*s = *st.(*ErrorInfoStatus)
	return nil
}

// ResourceInfoStatus reports the resource a request was about.
// It permits NOT_FOUND and ALREADY_EXISTS.
type ResourceInfoStatus struct {
	envelope
	details []*errdetails.ResourceInfo
}

// NewResourceInfoStatus validates and copies its arguments into a ResourceInfoStatus.
// An empty owner means the resource has no applicable owner.
func NewResourceInfoStatus(code codes.Code, message string, resources ...*errdetails.ResourceInfo) (*ResourceInfoStatus, error) {
	if err := validateVariant(KindResourceInfo, code, resources, checkResourceInfo); err != nil {
		return nil, err
	}
	return &ResourceInfoStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(resources),
	}, nil
}

func checkResourceInfo(d *errdetails.ResourceInfo) error { return details.ValidateResourceInfo(d) }

// Kind reports KindResourceInfo.
func (s *ResourceInfoStatus) Kind() Kind { return KindResourceInfo }

// ResourceInfos returns copies of the details.
func (s *ResourceInfoStatus) ResourceInfos() []*errdetails.ResourceInfo { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *ResourceInfoStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *ResourceInfoStatus) Validate() error {
	return validateVariant(KindResourceInfo, s.code, s.details, checkResourceInfo)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *ResourceInfoStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *ResourceInfoStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying ResourceInfoError.
func (s *ResourceInfoStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.ResourceInfo) error {
		return &errResourceInfo{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *ResourceInfoStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only ResourceInfo statuses.
func (s *ResourceInfoStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindResourceInfo)
	if err != nil {
		return err
	}
	*s = *st.(*ResourceInfoStatus)
	return nil
}

// QuotaFailureStatus reports failed quota checks.
// It permits RESOURCE_EXHAUSTED.
type QuotaFailureStatus struct {
	envelope
	details []*errdetails.QuotaFailure
}

// NewQuotaFailureStatus validates and copies its arguments into a QuotaFailureStatus.
func NewQuotaFailureStatus(code codes.Code, message string, failures ...*errdetails.QuotaFailure) (*QuotaFailureStatus, error) {
	if err := validateVariant(KindQuotaFailure, code, failures, checkQuotaFailure); err != nil {
		return nil, err
	}
	return &QuotaFailureStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(failures),
	}, nil
}

func checkQuotaFailure(d *errdetails.QuotaFailure) error {
	var result *multierror.Error
	for i, v := range d.GetViolations() {
		if err := details.ValidateQuotaViolation(v); err != nil {
			result = multierror.Append(result, details.Prefix(fmt.Sprintf("violations[%d]", i), err))
		}
	}
	return result.ErrorOrNil()
}

// Kind reports KindQuotaFailure.
func (s *QuotaFailureStatus) Kind() Kind { return KindQuotaFailure }

// QuotaFailures returns copies of the details.
func (s *QuotaFailureStatus) QuotaFailures() []*errdetails.QuotaFailure { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *QuotaFailureStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *QuotaFailureStatus) Validate() error {
	return validateVariant(KindQuotaFailure, s.code, s.details, checkQuotaFailure)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *QuotaFailureStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *QuotaFailureStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying FailedQuotaError.
func (s *QuotaFailureStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.QuotaFailure) error {
		return &errQuotaFailure{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *QuotaFailureStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only QuotaFailure statuses.
func (s *QuotaFailureStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindQuotaFailure)
	if err != nil {
		return err
	}
	*s = *st.(*QuotaFailureStatus)
	return nil
}

// DebugInfoStatus reports server-side debugging information.
// It permits DATA_LOSS, UNKNOWN, INTERNAL, UNAVAILABLE and DEADLINE_EXCEEDED.
type DebugInfoStatus struct {
	envelope
	details []*errdetails.DebugInfo
}

// NewDebugInfoStatus validates and copies its arguments into a DebugInfoStatus.
func NewDebugInfoStatus(code codes.Code, message string, infos ...*errdetails.DebugInfo) (*DebugInfoStatus, error) {
	if err := validateVariant(KindDebugInfo, code, infos, checkDebugInfo); err != nil {
		return nil, err
	}
	return &DebugInfoStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(infos),
	}, nil
}

func checkDebugInfo(d *errdetails.DebugInfo) error { return details.ValidateDebugInfo(d) }

// Kind reports KindDebugInfo.
func (s *DebugInfoStatus) Kind() Kind { return KindDebugInfo }

// DebugInfos returns copies of the details.
func (s *DebugInfoStatus) DebugInfos() []*errdetails.DebugInfo { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *DebugInfoStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *DebugInfoStatus) Validate() error {
	return validateVariant(KindDebugInfo, s.code, s.details, checkDebugInfo)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *DebugInfoStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *DebugInfoStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying DebugError.
func (s *DebugInfoStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.DebugInfo) error {
		return &errDebugInfo{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *DebugInfoStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only DebugInfo statuses.
func (s *DebugInfoStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindDebugInfo)
	if err != nil {
		return err
	}
	*s = *st.(*DebugInfoStatus)
	return nil
}

// RetryInfoStatus reports how long a client should wait before retrying.
// It permits UNAVAILABLE and ABORTED.
type RetryInfoStatus struct {
	envelope
	details []*errdetails.RetryInfo
}

// NewRetryInfoStatus validates and copies its arguments into a RetryInfoStatus.
func NewRetryInfoStatus(code codes.Code, message string, infos ...*errdetails.RetryInfo) (*RetryInfoStatus, error) {
	if err := validateVariant(KindRetryInfo, code, infos, checkRetryInfo); err != nil {
		return nil, err
	}
	return &RetryInfoStatus{
		envelope: envelope{code: code, message: message},
		details:  cloneAll(infos),
	}, nil
}

func checkRetryInfo(d *errdetails.RetryInfo) error { return details.ValidateRetryInfo(d) }

// Kind reports KindRetryInfo.
func (s *RetryInfoStatus) Kind() Kind { return KindRetryInfo }

// RetryInfos returns copies of the details.
func (s *RetryInfoStatus) RetryInfos() []*errdetails.RetryInfo { return cloneAll(s.details) }

// DetailMessages returns copies of the details as protobuf messages.
func (s *RetryInfoStatus) DetailMessages() []proto.Message { return messagesOf(s.details) }

// Validate reports whether the Status satisfies its constraints.
func (s *RetryInfoStatus) Validate() error {
	return validateVariant(KindRetryInfo, s.code, s.details, checkRetryInfo)
}

// Proto converts the Status to a google.rpc.Status message.
func (s *RetryInfoStatus) Proto() (*statuspb.Status, error) { return toProto(s, s.details) }

// GRPCStatus converts the Status to a gRPC Status with details attached.
func (s *RetryInfoStatus) GRPCStatus() *status.Status { return grpcStatus(s) }

// Err converts the Status to an error satisfying RetriableError.
func (s *RetryInfoStatus) Err() error {
	return chain(s, s.details, func(err error, d *errdetails.RetryInfo) error {
		return &errRetryInfo{carry(err, d)}
	})
}

// MarshalJSON implements json.Marshaler.
func (s *RetryInfoStatus) MarshalJSON() ([]byte, error) { return Marshal(s) }

// UnmarshalJSON implements json.Unmarshaler, accepting only RetryInfo statuses.
func (s *RetryInfoStatus) UnmarshalJSON(b []byte) error {
	st, err := UnmarshalKind(b, KindRetryInfo)
	if err != nil {
		return err
	}
	*s = *st.(*RetryInfoStatus)
	return nil
}

// chain wraps a code error with copies of the details, the first detail
// outermost. A Status with no details records its kind instead, so FromError
// can tell RetryInfo from DebugInfo on a shared code.
func chain[D proto.Message](s Status, ds []D, wrap func(error, D) error) error {
	if err := s.Validate(); err != nil {
		handler.Handle(fmt.Errorf("errstatus: raising status without details: %w", err))
		return New(fallbackCode(s.Code()), s.Message())
	}

	err := New(s.Code(), s.Message())
	if len(ds) == 0 {
		return &kindHint{error: err, kind: s.Kind()}
	}
	for i := len(ds) - 1; i >= 0; i-- {
		err = wrap(err, proto.Clone(ds[i]).(D))
	}
	return err
}

// kindHint marks the kind of a Status raised without details.
type kindHint struct {
	error
	kind Kind
}

func (e *kindHint) Unwrap() error { return e.error }

// build constructs the variant of kind from decoded detail messages.
func build(kind Kind, code codes.Code, message string, msgs []proto.Message) (Status, error) {
	switch kind {
	case KindBadRequest:
		ds, bad := castAll[*errdetails.BadRequest](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewBadRequestStatus(code, message, ds...))
	case KindPreconditionFailure:
		ds, bad := castAll[*errdetails.PreconditionFailure](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewPreconditionFailureStatus(code, message, ds...))
	case KindErrorInfo:
		ds, bad := castAll[*errdetails.ErrorInfo](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewErrorInfoStatus(code, message, ds...))
	case KindResourceInfo:
		ds, bad := castAll[*errdetails.ResourceInfo](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewResourceInfoStatus(code, message, ds...))
	case KindQuotaFailure:
		ds, bad := castAll[*errdetails.QuotaFailure](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewQuotaFailureStatus(code, message, ds...))
	case KindDebugInfo:
		ds, bad := castAll[*errdetails.DebugInfo](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewDebugInfoStatus(code, message, ds...))
	case KindRetryInfo:
		ds, bad := castAll[*errdetails.RetryInfo](kind, msgs)
		if len(bad) > 0 {
			return nil, invalidStatus(kind, bad, ErrDetailKind)
		}
		return variant(NewRetryInfoStatus(code, message, ds...))
	default:
		return nil, fmt.Errorf("%w: %s", ErrDetailKind, kind)
	}
}

// variant converts a constructor result, keeping a failed one a nil Status.
func variant[S Status](s S, err error) (Status, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// kindOf reports the kind bound to a detail message.
func kindOf(m proto.Message) (Kind, bool) {
	switch m.(type) {
	case *errdetails.BadRequest:
		return KindBadRequest, true
	case *errdetails.PreconditionFailure:
		return KindPreconditionFailure, true
	case *errdetails.ErrorInfo:
		return KindErrorInfo, true
	case *errdetails.ResourceInfo:
		return KindResourceInfo, true
	case *errdetails.QuotaFailure:
		return KindQuotaFailure, true
	case *errdetails.DebugInfo:
		return KindDebugInfo, true
	case *errdetails.RetryInfo:
		return KindRetryInfo, true
	default:
		return 0, false
	}
}
