package codec

import (
	"encoding/json"
	"testing"
)

func TestEncodeFromTextObjectForm(t *testing.T) {
	raw := json.RawMessage(`{"action":"Move","data":[2]}`)
	body, err := EncodeFromText(raw)
	if err != nil {
		t.Fatalf("EncodeFromText: %v", err)
	}
	a, _, err := DecodeBody(body)
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if a.Kind != KindMove || a.Direction != 2 {
		t.Fatalf("unexpected decode: %+v", a)
	}
}

func TestEncodeFromTextBareIntegerEscapeHatch(t *testing.T) {
	raw := json.RawMessage(`7`)
	body, err := EncodeFromText(raw)
	if err != nil {
		t.Fatalf("EncodeFromText: %v", err)
	}
	if len(body) != 1 || body[0] != 7 {
		t.Fatalf("expected raw single byte 7, got %x", body)
	}
}

func TestEncodeFromTextUnknownKind(t *testing.T) {
	raw := json.RawMessage(`{"action":"Teleport","data":[1]}`)
	if _, err := EncodeFromText(raw); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestEncodeFromTextWrongArity(t *testing.T) {
	raw := json.RawMessage(`{"action":"PlaceTile","data":[1]}`)
	if _, err := EncodeFromText(raw); err == nil {
		t.Fatalf("expected error for wrong arity")
	}
}

func TestEncodeFromTextMissingAction(t *testing.T) {
	raw := json.RawMessage(`{"data":[1]}`)
	if _, err := EncodeFromText(raw); err == nil {
		t.Fatalf("expected error for missing action field")
	}
}

func TestTextRoundTripSamePrefixTwice(t *testing.T) {
	raw := json.RawMessage(`{"action":"Move","data":[2]}`)
	b1, err := EncodeFromText(raw)
	if err != nil {
		t.Fatalf("EncodeFromText: %v", err)
	}
	b2, err := EncodeFromText(raw)
	if err != nil {
		t.Fatalf("EncodeFromText: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("encoding the same textual frame twice produced different bytes")
	}
}
