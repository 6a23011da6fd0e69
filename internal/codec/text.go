package codec

import (
	"encoding/json"

	"github.com/turbofold/foldengine/internal/apperr"
)

// textualFrame mirrors the JSON object form `{action: string, data:
// array}`. A bare non-negative integer <= 255 is handled separately in
// EncodeFromText as the raw-byte escape hatch.
type textualFrame struct {
	Action string `json:"action"`
	Data   []int  `json:"data"`
}

// EncodeFromText renders one textual frame (either `{"action":...,
// "data":[...]}` or a bare integer) into a binary action body.
func EncodeFromText(raw json.RawMessage) ([]byte, error) {
	var bareInt int
	if err := json.Unmarshal(raw, &bareInt); err == nil {
		if bareInt < 0 || bareInt > 255 {
			return nil, apperr.New(apperr.KindMalformedText, "raw byte %d out of range [0,255]", bareInt)
		}
		return []byte{byte(bareInt)}, nil
	}

	var tf textualFrame
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedText, err, "decoding textual action frame")
	}
	if tf.Action == "" {
		return nil, apperr.New(apperr.KindMalformedText, "missing action field")
	}
	kind, ok := kindFromName(tf.Action)
	if !ok {
		return nil, apperr.New(apperr.KindMalformedText, "unknown action kind %q", tf.Action)
	}

	switch kind {
	case KindMove, KindMoveAndPlace:
		if len(tf.Data) != 1 {
			return nil, apperr.New(apperr.KindMalformedText, "%s requires exactly 1 data field, got %d", tf.Action, len(tf.Data))
		}
		direction, err := toUint8(tf.Data[0])
		if err != nil {
			return nil, apperr.Wrap(apperr.KindMalformedText, err, "%s direction field", tf.Action)
		}
		return EncodeBody(Action{Kind: kind, Direction: direction})
	case KindPlaceTile:
		if len(tf.Data) != 2 {
			return nil, apperr.New(apperr.KindMalformedText, "PlaceTile requires exactly 2 data fields, got %d", len(tf.Data))
		}
		row, err := toUint8(tf.Data[0])
		if err != nil {
			return nil, apperr.Wrap(apperr.KindMalformedText, err, "PlaceTile row field")
		}
		col, err := toUint8(tf.Data[1])
		if err != nil {
			return nil, apperr.Wrap(apperr.KindMalformedText, err, "PlaceTile col field")
		}
		return EncodeBody(Action{Kind: KindPlaceTile, Row: row, Col: col})
	default:
		return nil, apperr.New(apperr.KindMalformedText, "unknown action kind %q", tf.Action)
	}
}

func toUint8(v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, apperr.New(apperr.KindMalformedText, "field %d out of byte range", v)
	}
	return uint8(v), nil
}

// DecodeToText renders a decoded Action back into its canonical textual
// form, the inverse of EncodeFromText.
func DecodeToText(a Action) textualFrame {
	switch a.Kind {
	case KindMove, KindMoveAndPlace:
		return textualFrame{Action: a.Kind.String(), Data: []int{int(a.Direction)}}
	case KindPlaceTile:
		return textualFrame{Action: a.Kind.String(), Data: []int{int(a.Row), int(a.Col)}}
	default:
		return textualFrame{Action: a.Kind.String()}
	}
}
