package errstatus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	codepb "google.golang.org/genproto/googleapis/rpc/code"
	"google.golang.org/grpc/codes"
)

// CodeName reports the canonical wire name of a status code, e.g.
// "INVALID_ARGUMENT". Codes outside the canonical range are reported as
// their decimal value.
func CodeName(c codes.Code) string {
	if name, ok := codepb.Code_name[int32(c)]; ok {
		return name
	}
	return strconv.FormatUint(uint64(c), 10)
}

// ParseCode parses the canonical wire name of a status code. Matching is
// case-insensitive; the Go spelling "Canceled" maps to CANCELLED.
func ParseCode(name string) (codes.Code, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "CANCELED" {
		n = "CANCELLED"
	}
	if v, ok := codepb.Code_value[n]; ok {
		return codes.Code(v), nil
	}
	return codes.Unknown, fmt.Errorf("%w: %q", ErrUnknownCode, name)
}

// HTTPStatus reports the HTTP status conventionally paired with a status code.
func HTTPStatus(c codes.Code) int {
	return runtime.HTTPStatusFromCode(c)
}
