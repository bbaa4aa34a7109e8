package details

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/proto"
)

// All converts each of in with as.
func All[I any, M proto.Message](in []I, as func(I) M) []M {
	out := make([]M, len(in))
	for i, v := range in {
		out[i] = as(v)
	}
	return out
}

// AsFieldViolation returns v itself when it is already a google.rpc message,
// otherwise a message copied from its getters. The other As functions behave
// the same way for their types.
func AsFieldViolation(v FieldViolation) *errdetails.BadRequest_FieldViolation {
	if m, ok := v.(*errdetails.BadRequest_FieldViolation); ok {
		return m
	}
	return &errdetails.BadRequest_FieldViolation{
		Field:       v.GetField(),
		Description: v.GetDescription(),
	}
}

func AsPreconditionViolation(v PreconditionViolation) *errdetails.PreconditionFailure_Violation {
	if m, ok := v.(*errdetails.PreconditionFailure_Violation); ok {
		return m
	}
	return &errdetails.PreconditionFailure_Violation{
		Type:        v.GetType(),
		Subject:     v.GetSubject(),
		Description: v.GetDescription(),
	}
}

func AsQuotaViolation(v QuotaViolation) *errdetails.QuotaFailure_Violation {
	if m, ok := v.(*errdetails.QuotaFailure_Violation); ok {
		return m
	}
	return &errdetails.QuotaFailure_Violation{
		Subject:     v.GetSubject(),
		Description: v.GetDescription(),
	}
}

func AsInfo(v Info) *errdetails.ErrorInfo {
	if m, ok := v.(*errdetails.ErrorInfo); ok {
		return m
	}
	return &errdetails.ErrorInfo{
		Reason:   v.GetReason(),
		Domain:   v.GetDomain(),
		Metadata: v.GetMetadata(),
	}
}

func AsResourceInfo(v ResourceInfo) *errdetails.ResourceInfo {
	if m, ok := v.(*errdetails.ResourceInfo); ok {
		return m
	}
	return &errdetails.ResourceInfo{
		ResourceType: v.GetResourceType(),
		ResourceName: v.GetResourceName(),
		Owner:        v.GetOwner(),
		Description:  v.GetDescription(),
	}
}

func AsDebugInfo(v DebugInfo) *errdetails.DebugInfo {
	if m, ok := v.(*errdetails.DebugInfo); ok {
		return m
	}
	return &errdetails.DebugInfo{
		StackEntries: v.GetStackEntries(),
		Detail:       v.GetDetail(),
	}
}

func AsRetryInfo(v RetryInfo) *errdetails.RetryInfo {
	if m, ok := v.(*errdetails.RetryInfo); ok {
		return m
	}
	return &errdetails.RetryInfo{RetryDelay: v.GetRetryDelay()}
}
