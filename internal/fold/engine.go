// Package fold implements the folding loop: it walks a concatenated
// action stream, routes each frame to the owning player's context,
// invokes the reducer, and produces the canonical public-state encoding.
// The per-frame dispatch shape (decode, validate, mutate, emit) follows
// an ABCI-style switch, generalized here from a fixed tx-type switch to a
// single reducer callback invoked once per frame.
package fold

import (
	"github.com/turbofold/foldengine/internal/codec"
	"github.com/turbofold/foldengine/internal/context"
	"github.com/turbofold/foldengine/internal/curve"
	"github.com/turbofold/foldengine/internal/reducer"
)

// Engine binds a reducer to the fold algorithm. It is reused, unchanged,
// by both a full-stream replay (Fold) and the session's single-frame
// dispatch (internal/session wraps ApplyFrame in a panic guard).
type Engine[Pub reducer.PublicState, Priv any] struct {
	Reduce reducer.Func[Pub, Priv]
}

// New binds reduce as the engine's reducer.
func New[Pub reducer.PublicState, Priv any](reduce reducer.Func[Pub, Priv]) *Engine[Pub, Priv] {
	return &Engine[Pub, Priv]{Reduce: reduce}
}

// ApplyFrame absorbs prefixAndBody into the player's digest, decodes the
// action, and invokes the reducer, for exactly one already-split frame.
// It does not catch a reducer panic; in-circuit this propagates as
// process abort, and the session wraps this call in its own recover to
// produce ReducerFault.
//
// inner is mutated in place only on the happy path: a panic inside Reduce
// unwinds before the commit at the end of this function runs, so on panic
// the caller's inner is left exactly as it was when ApplyFrame was called
// (callers that need strict isolation — the session — still pass a
// scratch clone of the player's stored context).
func (e *Engine[Pub, Priv]) ApplyFrame(
	inner *context.Inner,
	serverSeedBytes, playerSeedBytes [curve.SeedBytes]byte,
	prefixAndBody []byte,
	body []byte,
	public Pub,
	private *Priv,
) (action codec.Action, clientResponse any, err error) {
	outer := context.NewOuter(inner.Clone(), serverSeedBytes, playerSeedBytes)
	outer.AbsorbFrame(prefixAndBody)

	action, _, err = codec.DecodeBody(body)
	if err != nil {
		return codec.Action{}, nil, err
	}

	e.Reduce(public, private, action, outer)

	*inner = *outer.Inner()
	return action, outer.ClientResponse(), nil
}

// PlayerSeeds supplies the per-player metadata the fold loop needs to
// route frames: one inner context and one seed-point encoding per player
// index.
type PlayerSeeds struct {
	Inner     []*context.Inner
	SeedBytes [][curve.SeedBytes]byte
}

// Fold consumes stream fully, routing each frame by player_index to
// players.Inner[player_index], invoking the reducer, and returns the
// canonical encoding of the final public state. It terminates when the
// stream empties, or with the first fatal error (InvalidPlayerIndex,
// MalformedAction) at the offset where it occurs.
func (e *Engine[Pub, Priv]) Fold(
	stream []byte,
	serverSeedBytes [curve.SeedBytes]byte,
	players PlayerSeeds,
	public Pub,
	private *Priv,
) ([]byte, error) {
	for len(stream) > 0 {
		playerIndex, prefixBytes, body, rest, err := codec.ReadFrame(stream)
		if err != nil {
			return nil, err
		}
		if int(playerIndex) >= len(players.Inner) {
			return nil, outOfRangeContext(playerIndex)
		}

		prefixAndBody := make([]byte, 0, len(prefixBytes)+len(body))
		prefixAndBody = append(prefixAndBody, prefixBytes...)
		prefixAndBody = append(prefixAndBody, body...)

		if _, _, err := e.ApplyFrame(
			players.Inner[playerIndex],
			serverSeedBytes,
			players.SeedBytes[playerIndex],
			prefixAndBody,
			body,
			public,
			private,
		); err != nil {
			return nil, err
		}

		stream = rest
	}
	return public.Encode(), nil
}
