package errstatus

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// Kind names one member of the Status union, and with it the single detail
// type its details carry.
type Kind int

// Kinds are listed in resolution order: when a code is shared by more than
// one kind and nothing else disambiguates, the first kind permitting it wins.
const (
	KindBadRequest Kind = iota + 1
	KindPreconditionFailure
	KindErrorInfo
	KindResourceInfo
	KindQuotaFailure
	KindDebugInfo
	KindRetryInfo
)

// Kinds lists every member of the Status union in resolution order.
var Kinds = []Kind{
	KindBadRequest,
	KindPreconditionFailure,
	KindErrorInfo,
	KindResourceInfo,
	KindQuotaFailure,
	KindDebugInfo,
	KindRetryInfo,
}

var kindNames = map[Kind]string{
	KindBadRequest:          "BadRequest",
	KindPreconditionFailure: "PreconditionFailure",
	KindErrorInfo:           "ErrorInfo",
	KindResourceInfo:        "ResourceInfo",
	KindQuotaFailure:        "QuotaFailure",
	KindDebugInfo:           "DebugInfo",
	KindRetryInfo:           "RetryInfo",
}

var permittedCodes = map[Kind][]codes.Code{
	KindBadRequest:          {codes.InvalidArgument, codes.OutOfRange},
	KindPreconditionFailure: {codes.FailedPrecondition},
	KindErrorInfo:           {codes.Unauthenticated, codes.PermissionDenied, codes.Aborted},
	KindResourceInfo:        {codes.NotFound, codes.AlreadyExists},
	KindQuotaFailure:        {codes.ResourceExhausted},
	KindDebugInfo:           {codes.DataLoss, codes.Unknown, codes.Internal, codes.Unavailable, codes.DeadlineExceeded},
	KindRetryInfo:           {codes.Unavailable, codes.Aborted},
}

// String returns the name of the detail type bound to the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind by the name of its detail type, e.g. "RetryInfo".
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrDetailKind, name)
}

// PermittedCodes lists the status codes a Status of this kind may carry.
func (k Kind) PermittedCodes() []codes.Code {
	return append([]codes.Code(nil), permittedCodes[k]...)
}

// Permits reports whether a Status of this kind may carry the code.
func (k Kind) Permits(c codes.Code) bool {
	for _, p := range permittedCodes[k] {
		if p == c {
			return true
		}
	}
	return false
}

// KindsFor lists, in resolution order, every kind permitting the code.
// It is empty for codes with no Status variant, such as OK or UNIMPLEMENTED.
func KindsFor(c codes.Code) []Kind {
	var out []Kind
	for _, k := range Kinds {
		if k.Permits(c) {
			out = append(out, k)
		}
	}
	return out
}
