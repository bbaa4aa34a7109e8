package errstatus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ClaudiaJ/errstatus"
	detailspb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var testErr error = errors.New("test error")

func TestCodeError(t *testing.T) {
	err := errstatus.New(codes.InvalidArgument, "bad request")

	if !errors.Is(err, errstatus.ErrInvalidArgument) {
		t.Error("errors.Is not ErrInvalidArgument")
	}
	if errors.Is(err, errstatus.ErrNotFound) {
		t.Error("errors.Is matched ErrNotFound")
	}

	if got, want := err.Error(), "InvalidArgument: bad request"; got != want {
		t.Errorf("unexpected error string; got %q, want %q", got, want)
	}

	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("status.FromError did not recognize error")
	}
	if got, want := st.Message(), "bad request"; got != want {
		t.Errorf("unexpected status message; got %q, want %q", got, want)
	}
}

func TestBadRequestError(t *testing.T) {
	field, desc := "username", "username cannot be empty"
	err := errstatus.WithDetails(testErr,
		errstatus.BadRequest(&detailspb.BadRequest_FieldViolation{
			Field:       field,
			Description: desc,
		}))

	var badReq errstatus.BadRequestError
	if !errors.As(err, &badReq) {
		t.Fatal("errors.As not Bad Request error")
	}

	violation := badReq.GetViolations()[0]

	if got, want := violation.GetField(), field; got != want {
		t.Errorf("unexpected violation field; got %s, want %s", got, want)
	}
	if got, want := violation.GetDescription(), desc; got != want {
		t.Errorf("unexpected violation description; got %s, want %s", got, want)
	}
}

func TestDebugError(t *testing.T) {
	err := errstatus.WithDetails(testErr, errstatus.Debug(&detailspb.DebugInfo{
		StackEntries: []string{},
		Detail:       "",
	}))

	var dbgErr errstatus.DebugError
	if !errors.As(err, &dbgErr) {
		t.Error("errors.As not Debug error")
	}
}

func TestCausedError(t *testing.T) {
	err := errstatus.WithDetails(testErr, errstatus.Cause(&detailspb.ErrorInfo{
		Reason:   "",
		Domain:   "",
		Metadata: map[string]string{},
	}))

	var info errstatus.CausedError
	if !errors.As(err, &info) {
		t.Error("errors.As not Info error")
	}
}

func TestFailedPreconditionError(t *testing.T) {
	err := errstatus.WithDetails(testErr, errstatus.PreconditionFailure(&detailspb.PreconditionFailure_Violation{
		Type:        "",
		Subject:     "",
		Description: "",
	}))

	var condErr errstatus.FailedPreconditionError
	if !errors.As(err, &condErr) {
		t.Error("errors.As not Precondition error")
	}
}

func TestFailedQuotaError(t *testing.T) {
	err := errstatus.WithDetails(testErr, errstatus.QuotaFailure(&detailspb.QuotaFailure_Violation{
		Subject:     "",
		Description: "",
	}))

	var quoErr errstatus.FailedQuotaError
	if !errors.As(err, &quoErr) {
		t.Error("errors.As not Failed Quota error")
	}
}

func TestResourceInfoError(t *testing.T) {
	err := errstatus.WithDetails(testErr, errstatus.Resource(&detailspb.ResourceInfo{
		ResourceType: "",
		ResourceName: "",
		Owner:        "",
		Description:  "",
	}))

	var resErr errstatus.ResourceInfoError
	if !errors.As(err, &resErr) {
		t.Error("errors.As not ResourceInfoError")
	}
}

func TestRetriableError(t *testing.T) {
	delay := time.Second * 15
	err := errstatus.WithDetails(testErr, errstatus.RetryDelay(delay))

	var retErr errstatus.RetriableError
	if !errors.As(err, &retErr) {
		t.Fatal("errors.As not RetriableError")
	}

	if got, want := retErr.GetRetryDelay(), delay; got != want {
		t.Errorf("unexpected retry delay; got %v, want %v", got, want)
	}

	retErr.WithDelay(time.Minute)
	if got, want := retErr.GetRetryDelay(), time.Minute; got != want {
		t.Errorf("unexpected retry delay after WithDelay; got %v, want %v", got, want)
	}
}

type quotaViolation struct{ subject, description string }

func (q quotaViolation) GetSubject() string     { return q.subject }
func (q quotaViolation) GetDescription() string { return q.description }

func TestWithViolationCustomImplementation(t *testing.T) {
	err := errstatus.WithQuotaFailure(testErr, quotaViolation{"project:123", "daily limit"})
	err = err.WithViolation(&detailspb.QuotaFailure_Violation{Subject: "user:42"})

	violations := err.GetViolations()
	if got, want := len(violations), 2; got != want {
		t.Fatalf("unexpected violation count; got %d, want %d", got, want)
	}
	if got, want := violations[0].GetSubject(), "project:123"; got != want {
		t.Errorf("unexpected subject; got %s, want %s", got, want)
	}
	if got, want := violations[1].GetSubject(), "user:42"; got != want {
		t.Errorf("unexpected subject; got %s, want %s", got, want)
	}
}
