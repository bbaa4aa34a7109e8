package errstatus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	statuspb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/anypb"
)

// wireStatus is the JSON envelope. Details are google.protobuf.Any in their
// JSON mapping, so each carries its "@type".
type wireStatus struct {
	Code    int32             `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status,omitempty"`
	Details []json.RawMessage `json:"details"`
}

// Marshal encodes a Status as JSON:
//
//	{"code": 3, "message": "...", "status": "INVALID_ARGUMENT", "details": [{"@type": "type.googleapis.com/google.rpc.BadRequest", ...}]}
func Marshal(s Status) ([]byte, error) {
	p, err := s.Proto()
	if err != nil {
		return nil, err
	}
	return marshalProto(p)
}

func marshalProto(p *statuspb.Status) ([]byte, error) {
	ws := wireStatus{
		Code:    p.GetCode(),
		Message: p.GetMessage(),
		Status:  CodeName(codes.Code(p.GetCode())),
		Details: make([]json.RawMessage, 0, len(p.GetDetails())),
	}
	for i, a := range p.GetDetails() {
		b, err := protojson.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("errstatus: encoding details[%d]: %w", i, err)
		}
		ws.Details = append(ws.Details, b)
	}
	return json.Marshal(&ws)
}

// Unmarshal decodes a JSON encoded Status into the variant its details select.
//
// The "status" name is optional, but when present must name the same code as
// "code". Detail types outside the seven kinds are rejected.
func Unmarshal(b []byte) (Status, error) {
	p, err := decodeWire(b)
	if err != nil {
		return nil, err
	}
	return FromProto(p)
}

// UnmarshalKind decodes a JSON encoded Status as the given kind, rejecting
// codes and details the kind does not permit. Unlike Unmarshal, a document
// with no details keeps the kind even when its code is shared, e.g. a
// RetryInfo status with code UNAVAILABLE.
func UnmarshalKind(b []byte, kind Kind) (Status, error) {
	p, err := decodeWire(b)
	if err != nil {
		return nil, err
	}
	msgs, err := unpackDetails(p.GetDetails())
	if err != nil {
		return nil, err
	}
	return build(kind, codes.Code(p.GetCode()), p.GetMessage(), msgs)
}

func decodeWire(b []byte) (*statuspb.Status, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var ws wireStatus
	if err := dec.Decode(&ws); err != nil {
		return nil, fmt.Errorf("errstatus: decoding status: %w", err)
	}

	if ws.Status != "" {
		c, err := ParseCode(ws.Status)
		if err != nil {
			return nil, err
		}
		if c != codes.Code(ws.Code) {
			return nil, fmt.Errorf("%w: %w: code %d is %s, status is %s",
				ErrInvalidStatus, ErrStatusMismatch, ws.Code, CodeName(codes.Code(ws.Code)), CodeName(c))
		}
	}

	p := &statuspb.Status{
		Code:    ws.Code,
		Message: ws.Message,
		Details: make([]*anypb.Any, 0, len(ws.Details)),
	}
	for i, raw := range ws.Details {
		a := &anypb.Any{}
		if err := protojson.Unmarshal(raw, a); err != nil {
			return nil, fmt.Errorf("%w: details[%d]: %v", ErrDetailKind, i, err)
		}
		p.Details = append(p.Details, a)
	}
	return p, nil
}

// ToJSON writes an error as JSON with details in-tact such that it can be
// recovered with FromJSON.
//
// Errors that do not fold into a valid Status (see FromError) are written
// with their code and message only.
func ToJSON(from error) ([]byte, error) {
	st, err := FromError(from)
	if err == nil {
		return Marshal(st)
	}
	if !errors.Is(err, ErrNoVariant) {
		handler.Handle(fmt.Errorf("errstatus: writing error without details: %w", err))
	}

	code, msg := codeOf(from)
	return marshalProto(&statuspb.Status{Code: int32(code), Message: msg})
}

// FromJSON reads JSON from a Reader like a response Body, and reconstructs
// the wrapped error such that errors.As and errors.Is are satisfied by the
// error interface types of its Status.
//
// Codes with no Status variant, such as UNIMPLEMENTED, are accepted when the
// document carries no details.
func FromJSON(r io.Reader) error {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}

	p, err := decodeWire(buf.Bytes())
	if err != nil {
		return err
	}

	st, err := FromProto(p)
	if err != nil {
		if errors.Is(err, ErrNoVariant) && len(p.GetDetails()) == 0 {
			return New(codes.Code(p.GetCode()), p.GetMessage())
		}
		return err
	}
	return st.Err()
}
