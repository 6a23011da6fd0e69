// Package reducer fixes the pure reducer contract that the fold engine
// and the session both invoke once per action frame. It does not
// prescribe game rules; internal/reducer/puzzle supplies the illustrative
// 4x4 merge-sliding implementation.
package reducer

import "github.com/turbofold/foldengine/internal/codec"

// Context is the per-player view a reducer call receives. It is satisfied
// by *context.Outer; the interface lives here so this package does not
// need to import context's internals, keeping the reducer contract
// decoupled from how contexts are constructed.
type Context interface {
	PlayerIndex() uint8
	RandU32() uint32
	RandU64() uint64
	SetClientResponse(v any)
	ClientResponse() any
}

// PublicState is the reducer-defined public state contract: it must have
// a canonical byte encoding suitable for on-chain consumers.
type PublicState interface {
	Encode() []byte
}

// Func is the reducer contract: a pure function of its four inputs. It
// may read ctx.RandU32/RandU64, write ctx's client response, and must not
// retain references across calls. Signaling an illegal action is done by
// panicking; the caller (fold engine in-circuit, session on the host) is
// responsible for turning that into a fault.
type Func[Pub PublicState, Priv any] func(public Pub, private *Priv, action codec.Action, ctx Context)
