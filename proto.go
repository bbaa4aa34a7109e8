package errstatus

import (
	"fmt"

	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// FromProto converts a google.rpc.Status message into the Status variant its
// details select. With no details, the first kind permitting the code is used.
func FromProto(p *statuspb.Status) (Status, error) {
	code := codes.Code(p.GetCode())

	msgs, err := unpackDetails(p.GetDetails())
	if err != nil {
		return nil, err
	}

	kind, err := resolveKind(code, msgs)
	if err != nil {
		return nil, err
	}
	return build(kind, code, p.GetMessage(), msgs)
}

// FromGRPCStatus converts a gRPC Status into the Status variant its details select.
func FromGRPCStatus(s *status.Status) (Status, error) {
	return FromProto(s.Proto())
}

func unpackDetails(anys []*anypb.Any) ([]proto.Message, error) {
	msgs := make([]proto.Message, 0, len(anys))
	for i, a := range anys {
		m, err := a.UnmarshalNew()
		if err != nil {
			return nil, fmt.Errorf("%w: details[%d] %s: %v", ErrDetailKind, i, a.GetTypeUrl(), err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func resolveKind(code codes.Code, msgs []proto.Message) (Kind, error) {
	if len(msgs) > 0 {
		k, ok := kindOf(msgs[0])
		if !ok {
			return 0, fmt.Errorf("%w: details[0] %s", ErrDetailKind, msgs[0].ProtoReflect().Descriptor().FullName())
		}
		return k, nil
	}

	kinds := KindsFor(code)
	if len(kinds) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoVariant, CodeName(code))
	}
	return kinds[0], nil
}
