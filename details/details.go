// Package details describes the accessors of each error detail record and
// validates their documented constraints.
//
// The interfaces are satisfied by the google.rpc messages in
// google.golang.org/genproto/googleapis/rpc/errdetails, but any type with the
// same getters may be used in their place.
package details

import "google.golang.org/protobuf/types/known/durationpb"

// FieldViolation represents a validated or required field that was evaluated
// to have not met requirement for the field.
type FieldViolation interface {
	// GetField describes the path to a field in the request body. The value
	// will be a sequence of dot-separated identifiers, with bracketed indexes
	// for repeated fields, e.g. "emailAddresses[1].email".
	GetField() string

	// GetDescription describes why the request element is bad.
	GetDescription() string
}

// Info describes the cause of an error with structured details.
type Info interface {
	// GetReason gets the reason for the error, an UPPER_SNAKE_CASE constant
	// unique within its domain.
	GetReason() string

	// GetDomain gets the logical grouping to which a "reason" belongs to,
	// typically the registered service name, e.g. "pubsub.googleapis.com".
	GetDomain() string

	// GetMetadata gets additional structured details about the error.
	GetMetadata() map[string]string
}

// RetryInfo describes when a client may retry a failed request.
type RetryInfo interface {
	// GetRetryDelay gets the minimum recommended delay before retrying.
	GetRetryDelay() *durationpb.Duration
}

// PreconditionViolation describes a precondition that has failed resulting in an error.
type PreconditionViolation interface {
	// GetType gets the service-specific type of precondition failure.
	GetType() string

	// GetSubject gets the subject, relative to the type, that had failed.
	GetSubject() string

	// GetDescription gets the description of how the precondition had failed.
	GetDescription() string
}

// QuotaViolation describes a single quota violation, for example a daily quota
// has been exceeded.
type QuotaViolation interface {
	// GetSubject gets the subject on which the quota check had failed,
	// e.g. "project:123".
	GetSubject() string

	// GetDescription gets a description of how the quota check had failed.
	GetDescription() string
}

// ResourceInfo describes a resource that is being accessed.
type ResourceInfo interface {
	// GetResourceType gets the name for the type of resource being accessed, e.g. "sql table",
	GetResourceType() string

	// GetResourceName gets the name of the resource being accessed, e.g. the name of a table in a database.
	GetResourceName() string

	// GetOwner gets the owner of a resource. Empty when not applicable.
	GetOwner() string

	// GetDescription describes what error is encountered when accessing the resource.
	GetDescription() string
}

// DebugInfo describes additional debugging info.
type DebugInfo interface {
	// GetDetail gets additonal debugging information provided by the server.
	GetDetail() string

	// GetStackEntries gets stack entries indicating where the error occurred.
	GetStackEntries() []string
}
