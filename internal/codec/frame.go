package codec

import (
	"encoding/binary"

	"github.com/turbofold/foldengine/internal/apperr"
)

// MaxPlayerIndex is the exclusive upper bound on player_index: a byte
// value below 0x70.
const MaxPlayerIndex = 0x70

const (
	prefixMediumMarker = 0x80
	prefixLongMarker   = 0x81
)

// ParsePrefix reads the length prefix starting at s[0] and returns the
// decoded body length and the number of bytes the prefix itself occupies.
// It accepts all three forms (short/medium/long) regardless of whether a
// shorter form could have represented the same length, matching the
// in-circuit decoder's permissiveness: decoding accepts all forms, while
// encoding always pins to the shortest — see EncodePrefix.
func ParsePrefix(s []byte) (bodyLen int, prefixLen int, err error) {
	if len(s) == 0 {
		return 0, 0, apperr.New(apperr.KindMalformedAction, "truncated length prefix")
	}
	switch {
	case s[0] < prefixMediumMarker:
		return int(s[0]), 1, nil
	case s[0] == prefixMediumMarker:
		if len(s) < 2 {
			return 0, 0, apperr.New(apperr.KindMalformedAction, "truncated medium-form length prefix")
		}
		return int(s[1]), 2, nil
	case s[0] == prefixLongMarker:
		if len(s) < 3 {
			return 0, 0, apperr.New(apperr.KindMalformedAction, "truncated long-form length prefix")
		}
		return int(binary.BigEndian.Uint16(s[1:3])), 3, nil
	default:
		return 0, 0, apperr.New(apperr.KindMalformedAction, "malformed length prefix byte %#x", s[0])
	}
}

// EncodePrefix returns the canonical, shortest-valid length prefix for
// bodyLen. This module's own frame encoder always pins to the shortest
// form, so every frame it produces is interpreted identically by a decoder
// that merely accepts all three forms.
func EncodePrefix(bodyLen int) ([]byte, error) {
	switch {
	case bodyLen < 0:
		return nil, apperr.New(apperr.KindMalformedAction, "negative body length %d", bodyLen)
	case bodyLen < prefixMediumMarker:
		return []byte{byte(bodyLen)}, nil
	case bodyLen < 0x100:
		return []byte{prefixMediumMarker, byte(bodyLen)}, nil
	case bodyLen <= 0xFFFF:
		b := make([]byte, 3)
		b[0] = prefixLongMarker
		binary.BigEndian.PutUint16(b[1:], uint16(bodyLen))
		return b, nil
	default:
		return nil, apperr.New(apperr.KindMalformedAction, "body length %d exceeds u16 range", bodyLen)
	}
}

// EncodeFrame builds one complete wire frame: player_index, the canonical
// (shortest) length prefix for body, then body itself.
func EncodeFrame(playerIndex uint8, body []byte) ([]byte, error) {
	if playerIndex >= MaxPlayerIndex {
		return nil, apperr.New(apperr.KindInvalidPlayerIndex, "player_index %d >= %#x", playerIndex, MaxPlayerIndex)
	}
	prefix, err := EncodePrefix(len(body))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(prefix)+len(body))
	out = append(out, playerIndex)
	out = append(out, prefix...)
	out = append(out, body...)
	return out, nil
}

// ReadFrame reads exactly one frame from the front of s, returning the
// player index, the prefix bytes (needed so callers can absorb them into
// the rolling digest), the body, and whatever bytes remain after the
// frame.
func ReadFrame(s []byte) (playerIndex uint8, prefixBytes []byte, body []byte, rest []byte, err error) {
	if len(s) == 0 {
		return 0, nil, nil, nil, apperr.New(apperr.KindMalformedAction, "empty frame stream")
	}
	playerIndex = s[0]
	if playerIndex >= MaxPlayerIndex {
		return 0, nil, nil, nil, apperr.New(apperr.KindInvalidPlayerIndex, "player_index %d >= %#x", playerIndex, MaxPlayerIndex)
	}

	bodyLen, prefixLen, err := ParsePrefix(s[1:])
	if err != nil {
		return 0, nil, nil, nil, err
	}
	frameEnd := 1 + prefixLen + bodyLen
	if frameEnd > len(s) {
		return 0, nil, nil, nil, apperr.New(apperr.KindMalformedAction, "truncated frame body: need %d bytes, have %d", frameEnd, len(s))
	}

	prefixBytes = s[1 : 1+prefixLen]
	body = s[1+prefixLen : frameEnd]
	rest = s[frameEnd:]
	return playerIndex, prefixBytes, body, rest, nil
}
