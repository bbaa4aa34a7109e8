// Package errstatus provides a closed vocabulary of structured RPC error
// details and a Status type pairing a status code with exactly one kind of
// them.
//
// Seven kinds of Status exist, each binding a fixed set of codes to one
// google.rpc detail message:
//
//	BadRequestStatus           INVALID_ARGUMENT, OUT_OF_RANGE                               BadRequest
//	PreconditionFailureStatus  FAILED_PRECONDITION                                          PreconditionFailure
//	ErrorInfoStatus            UNAUTHENTICATED, PERMISSION_DENIED, ABORTED                  ErrorInfo
//	ResourceInfoStatus         NOT_FOUND, ALREADY_EXISTS                                    ResourceInfo
//	QuotaFailureStatus         RESOURCE_EXHAUSTED                                           QuotaFailure
//	DebugInfoStatus            DATA_LOSS, UNKNOWN, INTERNAL, UNAVAILABLE, DEADLINE_EXCEEDED DebugInfo
//	RetryInfoStatus            UNAVAILABLE, ABORTED                                         RetryInfo
//
// Constructors validate codes and details, so a Status value always holds.
//
// Errors provided by this package are implemented by embedding protobuf
// errdetails messages, and themselves implement an identical interface.
// This allows the use of protobuf errdetails messages in the method signature
// of each of the Detail wrappers, any custom implementation thereof, or even
// another error unwrapped by `errors.As`. FromError folds such a chain into a
// Status, and Status.Err turns it back into one.
package errstatus
