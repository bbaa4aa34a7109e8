package errstatus_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ClaudiaJ/errstatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	detailspb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

// recordErrors installs an ErrorHandler for the duration of the test and
// returns a func listing what it received.
func recordErrors(t *testing.T) func() []error {
	t.Helper()

	var mu sync.Mutex
	var got []error
	errstatus.SetErrorHandler(errstatus.ErrorHandlerFunc(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, err)
	}))
	t.Cleanup(func() { errstatus.SetErrorHandler(nil) })

	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

func TestFromErrorSelectsOutermostPermittedKind(t *testing.T) {
	handled := recordErrors(t)

	err := errstatus.New(codes.Unavailable, "upstream unavailable",
		errstatus.Debug(&detailspb.DebugInfo{Detail: "connection reset"}),
		errstatus.RetryDelay(5*time.Second),
	)

	s, cerr := errstatus.FromError(err)
	require.NoError(t, cerr)

	retry, ok := s.(*errstatus.RetryInfoStatus)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, codes.Unavailable, retry.Code())
	assert.Equal(t, "upstream unavailable", retry.Message())
	require.Len(t, retry.RetryInfos(), 1)
	assert.Equal(t, 5*time.Second, retry.RetryInfos()[0].GetRetryDelay().AsDuration())

	require.Len(t, handled(), 1)
	assert.Contains(t, handled()[0].Error(), "DebugInfo")
}

func TestFromErrorSkipsKindsNotPermittingCode(t *testing.T) {
	recordErrors(t)

	// RetryInfo is outermost but does not permit NOT_FOUND.
	err := errstatus.New(codes.NotFound, "no such bucket",
		errstatus.Resource(&detailspb.ResourceInfo{ResourceType: "bucket", ResourceName: "acme"}),
		errstatus.RetryDelay(time.Second),
	)

	s, cerr := errstatus.FromError(err)
	require.NoError(t, cerr)
	assert.Equal(t, errstatus.KindResourceInfo, s.Kind())
	assert.Len(t, s.DetailMessages(), 1)
}

func TestFromErrorKeepsDetailOrder(t *testing.T) {
	err := errstatus.New(codes.InvalidArgument, "bad request",
		errstatus.BadRequest(&detailspb.BadRequest_FieldViolation{Field: "first"}),
		errstatus.BadRequest(&detailspb.BadRequest_FieldViolation{Field: "second"}),
	)

	s, cerr := errstatus.FromError(err)
	require.NoError(t, cerr)

	badReqs := s.(*errstatus.BadRequestStatus).BadRequests()
	require.Len(t, badReqs, 2)
	assert.Equal(t, "second", badReqs[0].GetFieldViolations()[0].GetField())
	assert.Equal(t, "first", badReqs[1].GetFieldViolations()[0].GetField())

	s2, cerr := errstatus.FromError(s.Err())
	require.NoError(t, cerr)
	assertSameStatus(t, s, s2)
}

func TestFromErrorWithoutDetails(t *testing.T) {
	s, err := errstatus.FromError(errstatus.New(codes.Aborted, "transaction aborted"))
	require.NoError(t, err)
	assert.Equal(t, errstatus.KindErrorInfo, s.Kind())
	assert.Empty(t, s.DetailMessages())

	s, err = errstatus.FromError(errors.New("plain"))
	require.NoError(t, err)
	assert.Equal(t, errstatus.KindDebugInfo, s.Kind())
	assert.Equal(t, codes.Unknown, s.Code())
	assert.Equal(t, "plain", s.Message())
}

func TestFromErrorCodeWrapper(t *testing.T) {
	err := errstatus.WithDetails(fmt.Errorf("read users: %w", testErr),
		errstatus.Code(codes.DataLoss),
		errstatus.Debug(&detailspb.DebugInfo{StackEntries: []string{"db.Read"}}),
	)

	s, cerr := errstatus.FromError(err)
	require.NoError(t, cerr)
	assert.Equal(t, codes.DataLoss, s.Code())
	assert.Equal(t, "read users: test error", s.Message())
	assert.Equal(t, errstatus.KindDebugInfo, s.Kind())
	assert.ErrorIs(t, err, testErr)
}

func TestFromErrorNoVariant(t *testing.T) {
	_, err := errstatus.FromError(errstatus.New(codes.Unimplemented, "not yet"))
	assert.ErrorIs(t, err, errstatus.ErrNoVariant)

	_, err = errstatus.FromError(nil)
	assert.ErrorIs(t, err, errstatus.ErrNoVariant)
}

func TestFromErrorNoVariantReportsDetails(t *testing.T) {
	handled := recordErrors(t)

	err := errstatus.New(codes.Unimplemented, "not yet",
		errstatus.BadRequest(&detailspb.BadRequest_FieldViolation{Field: "mode", Description: "unsupported"}),
	)

	_, cerr := errstatus.FromError(err)
	assert.ErrorIs(t, cerr, errstatus.ErrNoVariant)
	require.Len(t, handled(), 1)
	assert.Contains(t, handled()[0].Error(), "BadRequest")

	b, err := errstatus.ToJSON(err)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": 12, "message": "not yet", "status": "UNIMPLEMENTED", "details": []}`, string(b))
	assert.Len(t, handled(), 2)
}

func TestFromErrorInvalidDetail(t *testing.T) {
	err := errstatus.New(codes.PermissionDenied, "denied",
		errstatus.Cause(&detailspb.ErrorInfo{Reason: "not upper", Domain: "iam.googleapis.com"}),
	)

	_, cerr := errstatus.FromError(err)
	assert.ErrorIs(t, cerr, errstatus.ErrInvalidStatus)
	assert.Equal(t, []string{"details[0].reason"}, violationFields(t, cerr))
}

func TestFromErrorGRPCStatus(t *testing.T) {
	st, err := status.New(codes.ResourceExhausted, "quota exceeded").WithDetails(
		&detailspb.QuotaFailure{Violations: []*detailspb.QuotaFailure_Violation{{Subject: "project:123"}}},
	)
	require.NoError(t, err)

	s, cerr := errstatus.FromError(fmt.Errorf("calling billing: %w", st.Err()))
	require.NoError(t, cerr)

	quota, ok := s.(*errstatus.QuotaFailureStatus)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, "quota exceeded", quota.Message())
	assert.Equal(t, "project:123", quota.QuotaFailures()[0].GetViolations()[0].GetSubject())
}

func TestRetryDelayOf(t *testing.T) {
	s, err := errstatus.NewRetryInfoStatus(codes.Aborted, "conflict",
		&detailspb.RetryInfo{RetryDelay: durationpb.New(2 * time.Second)},
	)
	require.NoError(t, err)

	d, ok := errstatus.RetryDelayOf(s.Err())
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, d)

	_, ok = errstatus.RetryDelayOf(testErr)
	assert.False(t, ok)
}
