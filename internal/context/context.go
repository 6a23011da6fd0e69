// Package context implements the per-player action context: a cheap,
// cloneable "inner" record (randomizer + digest + player index) and a
// short-lived "outer" view that additionally borrows session-owned
// metadata.
package context

import (
	"github.com/turbofold/foldengine/internal/curve"
	"github.com/turbofold/foldengine/internal/digest"
	"github.com/turbofold/foldengine/internal/randomizer"
)

// Inner is what a session stores per player: a randomizer, a digest, and
// the player's positional index. It is cheap to clone because both its
// fields are themselves cloned by value/pointer-copy.
type Inner struct {
	PlayerIndex uint8
	Rand        *randomizer.Randomizer
	Digest      *digest.Digest
}

// NewInner builds a fresh per-player inner context. serverSeed and
// playerSeed are folded under curve addition to seed the randomizer; the
// randomizer's initial 16-word encoding is then absorbed into the digest
// before any frame bytes, so the digest is a pure function of
// seed_point_bytes :: frame_bodies_observed_by_this_player.
func NewInner(serverSeed, playerSeed curve.Point, playerIndex uint8) *Inner {
	r := randomizer.NewWithSeeds(serverSeed, playerSeed)
	d := digest.New()
	seedBytes := r.CurrentSeedBytes()
	d.AbsorbBytes(seedBytes[:])
	return &Inner{PlayerIndex: playerIndex, Rand: r, Digest: d}
}

// Clone returns an independent deep copy suitable for a scratch dispatch
// attempt: mutations during a failed/panicking reducer call never reach
// the original.
func (in *Inner) Clone() *Inner {
	return &Inner{
		PlayerIndex: in.PlayerIndex,
		Rand:        in.Rand.Clone(),
		Digest:      in.Digest.Clone(),
	}
}

// Outer is the short-lived view the fold engine/session hand to the
// reducer: an inner context plus borrowed, read-only session metadata and
// a transient client-response slot the reducer may populate.
type Outer struct {
	inner *Inner

	ServerSeedBytes [curve.SeedBytes]byte
	PlayerSeedBytes [curve.SeedBytes]byte

	clientResponse any
}

// NewOuter wraps an inner context with borrowed metadata. serverSeedBytes
// and playerSeedBytes are the session's stored 16-word server/player
// metadata encodings.
func NewOuter(inner *Inner, serverSeedBytes, playerSeedBytes [curve.SeedBytes]byte) *Outer {
	return &Outer{inner: inner, ServerSeedBytes: serverSeedBytes, PlayerSeedBytes: playerSeedBytes}
}

// PlayerIndex returns the player's positional identity.
func (o *Outer) PlayerIndex() uint8 {
	return o.inner.PlayerIndex
}

// RandU32 draws the next 32-bit pseudo-random output for this player.
func (o *Outer) RandU32() uint32 {
	return o.inner.Rand.RandU32()
}

// RandU64 draws the next 64-bit pseudo-random output for this player.
func (o *Outer) RandU64() uint64 {
	return o.inner.Rand.RandU64()
}

// AbsorbFrame feeds the fold engine's prefix-and-body bytes into the
// digest. The engine, not the reducer, calls this.
func (o *Outer) AbsorbFrame(prefixAndBody []byte) {
	o.inner.Digest.AbsorbBytes(prefixAndBody)
}

// DigestSnapshot exposes the current digest limbs, used by tests and by
// snapshot/debug surfaces.
func (o *Outer) DigestSnapshot() [digest.Limbs]uint32 {
	return o.inner.Digest.Snapshot()
}

// SetClientResponse records the (optional) value the reducer wants echoed
// back to the client for this dispatch. A fresh Outer always starts with a
// nil client response; the fold engine constructs exactly one Outer per
// dispatch, so no explicit "clear" step is needed between dispatches.
func (o *Outer) SetClientResponse(v any) {
	o.clientResponse = v
}

// ClientResponse returns whatever the reducer last set on this context via
// SetClientResponse, or nil.
func (o *Outer) ClientResponse() any {
	return o.clientResponse
}

// Inner returns the underlying inner context, e.g. so a session can commit
// it back into player storage after a successful dispatch.
func (o *Outer) Inner() *Inner {
	return o.inner
}
