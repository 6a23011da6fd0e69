package codec

import "testing"

func TestEncodePrefixPinsShortestForm(t *testing.T) {
	cases := []struct {
		bodyLen int
		want    []byte
	}{
		{0, []byte{0}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x80, 0x80}},
		{0xFF, []byte{0x80, 0xFF}},
		{0x100, []byte{0x81, 0x01, 0x00}},
	}
	for _, c := range cases {
		got, err := EncodePrefix(c.bodyLen)
		if err != nil {
			t.Fatalf("EncodePrefix(%d): %v", c.bodyLen, err)
		}
		if string(got) != string(c.want) {
			t.Fatalf("EncodePrefix(%d) = %x, want %x", c.bodyLen, got, c.want)
		}
	}
}

func TestParsePrefixAcceptsAllThreeForms(t *testing.T) {
	short := []byte{0x05, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
	if n, pl, err := ParsePrefix(short); err != nil || n != 5 || pl != 1 {
		t.Fatalf("short form: n=%d pl=%d err=%v", n, pl, err)
	}
	medium := []byte{0x80, 0x05}
	if n, pl, err := ParsePrefix(medium); err != nil || n != 5 || pl != 2 {
		t.Fatalf("medium form: n=%d pl=%d err=%v", n, pl, err)
	}
	long := []byte{0x81, 0x01, 0x00}
	if n, pl, err := ParsePrefix(long); err != nil || n != 0x100 || pl != 3 {
		t.Fatalf("long form: n=%d pl=%d err=%v", n, pl, err)
	}
}

func TestParsePrefixRejectsMalformedMarker(t *testing.T) {
	if _, _, err := ParsePrefix([]byte{0x82, 0x00}); err == nil {
		t.Fatalf("expected error for prefix byte 0x82")
	}
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	body := []byte{byte(KindMove), 1}
	frame, err := EncodeFrame(3, body)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	idx, prefix, gotBody, rest, err := ReadFrame(frame)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if idx != 3 {
		t.Fatalf("player index = %d, want 3", idx)
	}
	if len(prefix) != 1 || prefix[0] != byte(len(body)) {
		t.Fatalf("unexpected prefix bytes %x", prefix)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body mismatch: got %x want %x", gotBody, body)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no remaining bytes, got %x", rest)
	}
}

func TestEncodeFrameRejectsOutOfRangePlayerIndex(t *testing.T) {
	if _, err := EncodeFrame(0x70, []byte{0}); err == nil {
		t.Fatalf("expected error for player_index == 0x70")
	}
}

func TestReadFrameStopsAtDeterministicOffsetOnMalformedPrefix(t *testing.T) {
	stream := []byte{0x00, 0x82, 0x00}
	_, _, _, _, err := ReadFrame(stream)
	if err == nil {
		t.Fatalf("expected error for malformed prefix marker 0x82")
	}
}

func TestReadFrameInvalidPlayerIndex(t *testing.T) {
	stream := []byte{0x70, 0x00}
	_, _, _, _, err := ReadFrame(stream)
	if err == nil {
		t.Fatalf("expected error for player_index 0x70")
	}
}

func TestReadFrameSequenceConsumesWholeStream(t *testing.T) {
	body1 := []byte{byte(KindMove), 1}
	body2 := []byte{byte(KindPlaceTile), 2, 3}
	f1, err := EncodeFrame(0, body1)
	if err != nil {
		t.Fatalf("EncodeFrame 1: %v", err)
	}
	f2, err := EncodeFrame(1, body2)
	if err != nil {
		t.Fatalf("EncodeFrame 2: %v", err)
	}
	stream := append(append([]byte{}, f1...), f2...)

	idx1, _, b1, rest, err := ReadFrame(stream)
	if err != nil {
		t.Fatalf("ReadFrame 1: %v", err)
	}
	if idx1 != 0 || string(b1) != string(body1) {
		t.Fatalf("unexpected first frame: idx=%d body=%x", idx1, b1)
	}
	idx2, _, b2, rest2, err := ReadFrame(rest)
	if err != nil {
		t.Fatalf("ReadFrame 2: %v", err)
	}
	if idx2 != 1 || string(b2) != string(body2) {
		t.Fatalf("unexpected second frame: idx=%d body=%x", idx2, b2)
	}
	if len(rest2) != 0 {
		t.Fatalf("expected stream fully consumed, got %d bytes left", len(rest2))
	}
}
