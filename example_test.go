package errstatus_test

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/ClaudiaJ/errstatus"
	"github.com/cenkalti/backoff/v4"
	detailspb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
)

func ExampleNew() {
	// New creates a new error with a distinct Code
	err := errstatus.New(codes.InvalidArgument, "fields not satisfied")

	fmt.Println(errors.Is(err, errstatus.ErrInvalidArgument))
	//output:
	// true
}

func ExampleBadRequest() {
	errstatus.New(codes.InvalidArgument, "fields not satisfied",
		errstatus.BadRequest(
			// BadRequest takes optional Field Violations describing fields having failed validations.
			&detailspb.BadRequest_FieldViolation{
				Field:       "username",
				Description: "username must not contain any part of email address.",
			},
			&detailspb.BadRequest_FieldViolation{
				Field:       "password",
				Description: "password must be at least 5 characters long.",
			},
		),
	)
}

func ExampleCause() {
	errstatus.New(codes.PermissionDenied, "object payload not received in full",
		errstatus.Cause(&detailspb.ErrorInfo{
			Reason: "STREAM_TERMINATED",
			Domain: "bucket.platform.test",
		}),
	)
}

func ExampleDebug() {
	errstatus.New(codes.Internal, "impossible error reached",
		errstatus.Debug(&detailspb.DebugInfo{
			StackEntries: []string{"data.Gnorm/One", "api.Thing/Something"},
			Detail:       "Request body was nil where it shouldn not have been",
		}),
	)
}

func ExamplePreconditionFailure() {
	errstatus.New(codes.FailedPrecondition, "Terms of Service is required",
		errstatus.PreconditionFailure(
			&detailspb.PreconditionFailure_Violation{
				Type:        "TOS",
				Description: "Please review and acknowledge Terms of Service before continuing.",
			},
		),
	)
}

func ExampleQuotaFailure() {
	errstatus.New(codes.ResourceExhausted, "Too many requests",
		errstatus.QuotaFailure(&detailspb.QuotaFailure_Violation{
			Subject:     "clientip:10.0.0.1",
			Description: "Rate limit exceeded.",
		}),
	)
}

func ExampleResource() {
	errstatus.New(codes.NotFound, "no such wallet",
		errstatus.Resource(&detailspb.ResourceInfo{
			ResourceType: "wallet",
			ResourceName: "wallets/123456789",
			Description:  "no wallet exists for this account",
		}),
	)
}

func ExampleRetryDelay() {
	errstatus.New(codes.Unavailable, "upstream responded with temporary failure", errstatus.RetryDelay(time.Minute))
}

func ExampleWithBadRequest() {
	err := errstatus.WithBadRequest(testErr,
		&detailspb.BadRequest_FieldViolation{
			Field:       "username",
			Description: "username must not contain any part of email address.",
		},
		&detailspb.BadRequest_FieldViolation{
			Field:       "password",
			Description: "password must be at least 5 characters long.",
		},
	)

	var badReq errstatus.BadRequestError
	if errors.As(err, &badReq) {
		fmt.Println("error is", reflect.ValueOf(&badReq).Elem().Type())
		for _, violation := range badReq.GetViolations() {
			fmt.Printf("field violation %q: %s\n", violation.GetField(), violation.GetDescription())
		}
	}
	//output:
	// error is errstatus.BadRequestError
	// field violation "username": username must not contain any part of email address.
	// field violation "password": password must be at least 5 characters long.
}

func ExampleWithCause() {
	const ReasonThrottle = "UPSTREAM_THROTTLE"

	err := errstatus.WithCause(testErr,
		&detailspb.ErrorInfo{
			Reason: ReasonThrottle,
			Domain: "fake.domain.test",
		},
	)

	var causedErr errstatus.CausedError
	if errors.As(err, &causedErr) {
		fmt.Println("error is", reflect.ValueOf(&causedErr).Elem().Type())
		fmt.Printf("with reason %q\n", causedErr.GetReason())
		fmt.Printf("with domain %q\n", causedErr.GetDomain())
	}
	//output:
	// error is errstatus.CausedError
	// with reason "UPSTREAM_THROTTLE"
	// with domain "fake.domain.test"
}

func ExampleWithDebug() {
	err := errstatus.WithDebug(testErr,
		&detailspb.DebugInfo{
			StackEntries: []string{"something", "goes", "here"},
			Detail:       "Server responded Internal Server Error with Message wrapping Status as string.",
		},
	)

	var debugErr errstatus.DebugError
	if errors.As(err, &debugErr) {
		fmt.Println("error is", reflect.ValueOf(&debugErr).Elem().Type())
		fmt.Printf("with stack entries: %q\n", debugErr.GetStackEntries())
		fmt.Printf("with detail: %q\n", debugErr.GetDetail())
	}
	//output:
	// error is errstatus.DebugError
	// with stack entries: ["something" "goes" "here"]
	// with detail: "Server responded Internal Server Error with Message wrapping Status as string."
}

func ExampleWithPreconditionFailure() {
	err := errstatus.WithPreconditionFailure(testErr, &detailspb.PreconditionFailure_Violation{
		Type:        "TOS",
		Description: "Terms of Service not accepted.",
	})

	var condErr errstatus.FailedPreconditionError
	if errors.As(err, &condErr) {
		fmt.Println("error is", reflect.ValueOf(&condErr).Elem().Type())
		for _, violation := range condErr.GetViolations() {
			fmt.Printf("precondition violation %q: %s\n", violation.GetType(), violation.GetDescription())
		}
	}
	//output:
	// error is errstatus.FailedPreconditionError
	// precondition violation "TOS": Terms of Service not accepted.
}

func ExampleWithQuotaFailure() {
	err := errstatus.WithQuotaFailure(testErr, &detailspb.QuotaFailure_Violation{
		Subject:     "project:123",
		Description: "Too many requests, too fast.",
	})

	var quotaErr errstatus.FailedQuotaError
	if errors.As(err, &quotaErr) {
		fmt.Println("error is", reflect.ValueOf(&quotaErr).Elem().Type())
		for _, violation := range quotaErr.GetViolations() {
			fmt.Printf("quota violation %q: %s\n", violation.GetSubject(), violation.GetDescription())
		}
	}
	//output:
	// error is errstatus.FailedQuotaError
	// quota violation "project:123": Too many requests, too fast.
}

func ExampleWithResource() {
	err := errstatus.WithResource(testErr, &detailspb.ResourceInfo{
		ResourceType: "table",
		ResourceName: "public.shopify",
		Description:  "No record exists in table for shopify URL",
	})

	var resErr errstatus.ResourceInfoError
	if errors.As(err, &resErr) {
		fmt.Println("error is", reflect.ValueOf(&resErr).Elem().Type())
		fmt.Printf("with resource (%s) %q: %s\n", resErr.GetResourceType(), resErr.GetResourceName(), resErr.GetDescription())
	}
	//output:
	// error is errstatus.ResourceInfoError
	// with resource (table) "public.shopify": No record exists in table for shopify URL
}

func ExampleWithRetryDelay() {
	err := errstatus.WithRetryDelay(testErr, 10*time.Minute)

	var retErr errstatus.RetriableError
	if errors.As(err, &retErr) {
		fmt.Println("error is", reflect.ValueOf(&retErr).Elem().Type())
		fmt.Println("with recommended delay:", retErr.GetRetryDelay())
	}
	//output:
	// error is errstatus.RetriableError
	// with recommended delay: 10m0s
}

func ExampleNewBadRequestStatus() {
	s, err := errstatus.NewBadRequestStatus(codes.InvalidArgument, "invalid email", &detailspb.BadRequest{
		FieldViolations: []*detailspb.BadRequest_FieldViolation{{
			Field:       "email",
			Description: "not a valid address",
		}},
	})
	if err != nil {
		panic(err)
	}

	b, err := errstatus.Marshal(s)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(b))

	// the same details may not be sent with a code BadRequest does not permit
	_, err = errstatus.NewBadRequestStatus(codes.NotFound, "invalid email", s.BadRequests()...)
	fmt.Println(errors.Is(err, errstatus.ErrCodeNotPermitted))
	//output:
	// {"code":3,"message":"invalid email","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.BadRequest","fieldViolations":[{"field":"email","description":"not a valid address"}]}]}
	// true
}

func ExampleFromError() {
	err := errstatus.New(codes.NotFound, "no such table",
		errstatus.Resource(&detailspb.ResourceInfo{
			ResourceType: "sql table",
			ResourceName: "public.users",
		}),
	)

	s, cerr := errstatus.FromError(err)
	if cerr != nil {
		panic(cerr)
	}

	switch s := s.(type) {
	case *errstatus.ResourceInfoStatus:
		for _, info := range s.ResourceInfos() {
			fmt.Printf("%s %s: %s %q\n", s.StatusName(), s.Message(), info.GetResourceType(), info.GetResourceName())
		}
	default:
		fmt.Println("unexpected", s.Kind())
	}
	//output:
	// NOT_FOUND no such table: sql table "public.users"
}

func ExampleHintedBackOff() {
	err := errstatus.New(codes.Unavailable, "overloaded", errstatus.RetryDelay(3*time.Second))

	b := errstatus.HintedBackOff(err, backoff.NewConstantBackOff(time.Second))
	fmt.Println(b.NextBackOff())
	//output:
	// 3s
}
