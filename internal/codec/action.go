// Package codec implements the action wire format: binary encoding
// and decoding of typed actions, the textual JSON form clients submit, and
// the length-prefixed framing contract. Uses a tagged-envelope shape: a
// one-byte kind tag followed by kind-specific fields.
package codec

import (
	"fmt"

	"github.com/turbofold/foldengine/internal/apperr"
)

// Kind is the action-kind tag, body[0] on the wire. The kind set is
// closed, enumerable, and known to both codec and reducer, fixed here to
// the illustrative 4x4 merge-sliding puzzle's three actions.
type Kind uint8

const (
	KindMove Kind = iota
	KindPlaceTile
	KindMoveAndPlace
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "Move"
	case KindPlaceTile:
		return "PlaceTile"
	case KindMoveAndPlace:
		return "MoveAndPlace"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func kindFromName(name string) (Kind, bool) {
	switch name {
	case "Move":
		return KindMove, true
	case "PlaceTile":
		return KindPlaceTile, true
	case "MoveAndPlace":
		return KindMoveAndPlace, true
	default:
		return 0, false
	}
}

// Action is the decoded form of one action-kind-tagged body.
type Action struct {
	Kind      Kind
	Direction uint8 // Move, MoveAndPlace: 0..3
	Row       uint8 // PlaceTile: 0..3
	Col       uint8 // PlaceTile: 0..3
}

// EncodeBody renders a into its fixed-length binary body (tag byte plus
// payload). This is the inverse of DecodeBody for every Action this
// package itself constructs.
func EncodeBody(a Action) ([]byte, error) {
	switch a.Kind {
	case KindMove, KindMoveAndPlace:
		if a.Direction > 3 {
			return nil, apperr.New(apperr.KindMalformedAction, "direction %d out of range [0,3]", a.Direction)
		}
		return []byte{byte(a.Kind), a.Direction}, nil
	case KindPlaceTile:
		if a.Row > 3 || a.Col > 3 {
			return nil, apperr.New(apperr.KindMalformedAction, "row/col (%d,%d) out of range [0,3]", a.Row, a.Col)
		}
		return []byte{byte(a.Kind), a.Row, a.Col}, nil
	default:
		return nil, apperr.New(apperr.KindMalformedAction, "unknown action kind %d", uint8(a.Kind))
	}
}

// DecodeBody reads one action from the front of body and returns the
// unconsumed tail. The tail is required to be empty at the session
// boundary but may be non-empty at the in-circuit boundary, where
// back-to-back frames share a buffer.
func DecodeBody(body []byte) (Action, []byte, error) {
	if len(body) == 0 {
		return Action{}, nil, apperr.New(apperr.KindMalformedAction, "empty action body")
	}
	tag := Kind(body[0])
	switch tag {
	case KindMove, KindMoveAndPlace:
		if len(body) < 2 {
			return Action{}, nil, apperr.New(apperr.KindMalformedAction, "truncated %s payload", tag)
		}
		direction := body[1]
		if direction > 3 {
			return Action{}, nil, apperr.New(apperr.KindMalformedAction, "%s direction %d out of range [0,3]", tag, direction)
		}
		return Action{Kind: tag, Direction: direction}, body[2:], nil
	case KindPlaceTile:
		if len(body) < 3 {
			return Action{}, nil, apperr.New(apperr.KindMalformedAction, "truncated PlaceTile payload")
		}
		row, col := body[1], body[2]
		if row > 3 || col > 3 {
			return Action{}, nil, apperr.New(apperr.KindMalformedAction, "PlaceTile (%d,%d) out of range [0,3]", row, col)
		}
		return Action{Kind: KindPlaceTile, Row: row, Col: col}, body[3:], nil
	default:
		return Action{}, nil, apperr.New(apperr.KindMalformedAction, "unknown action tag %d", body[0])
	}
}
