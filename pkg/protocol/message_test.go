package protocol

import (
	"testing"

	"github.com/holoview/go-window/pkg/projection"
)

func TestMessage_ProjectionRoundTrip(t *testing.T) {
	payload := ProjectionPayload{
		Session: "abc",
		Eye:     projection.HeadPosition{X: 0.05, Y: -0.02, Z: 0.6},
		Frustum: projection.Frustum{Left: -0.1, Right: 0.08, Bottom: -0.05, Top: 0.05, Near: 0.1, Far: 100},
	}

	msg, err := NewMessage(TypeProjection, payload)
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if msg.Timestamp == 0 {
		t.Error("message missing timestamp")
	}

	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}
	if parsed.Type != TypeProjection {
		t.Errorf("type = %q, want %q", parsed.Type, TypeProjection)
	}

	var got ProjectionPayload
	if err := parsed.ParseData(&got); err != nil {
		t.Fatalf("ParseData failed: %v", err)
	}
	if got != payload {
		t.Errorf("round trip gave %+v, want %+v", got, payload)
	}
}

func TestMessage_NilData(t *testing.T) {
	msg, err := NewMessage(TypePing, nil)
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if msg.Data != nil {
		t.Error("ping should carry no data")
	}

	var payload StatusPayload
	if err := msg.ParseData(&payload); err != nil {
		t.Errorf("ParseData on nil data failed: %v", err)
	}
}

func TestParseMessage_Invalid(t *testing.T) {
	if _, err := ParseMessage([]byte("{not json")); err == nil {
		t.Error("expected error for malformed message")
	}
}
