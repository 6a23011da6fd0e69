// Package randomizer implements the per-player seeded pseudo-random
// generator: a curve point driven by iterated doubling, windowed and
// mixed through the PCG output functions (internal/pcg).
package randomizer

import (
	"encoding/binary"

	"github.com/turbofold/foldengine/internal/curve"
	"github.com/turbofold/foldengine/internal/pcg"
)

// Randomizer holds the current curve point and draw counter for one
// player's context.
type Randomizer struct {
	current curve.Point
	nonce   uint64
}

// NewWithSeeds folds one or more seed points under curve addition into
// the initial state: P = sum of seeds, where the first seed is the
// server seed and subsequent seeds are the player seed(s).
func NewWithSeeds(seeds ...curve.Point) *Randomizer {
	return &Randomizer{current: curve.Sum(seeds...)}
}

// Current returns the current curve point.
func (r *Randomizer) Current() curve.Point {
	return r.current
}

// CurrentSeedBytes returns the 16-word canonical encoding of the current
// point, which the digest absorbs on context construction.
func (r *Randomizer) CurrentSeedBytes() [curve.SeedBytes]byte {
	return r.current.SeedBytesOf()
}

// Nonce returns the number of draws performed so far.
func (r *Randomizer) Nonce() uint64 {
	return r.nonce
}

// Clone returns an independent copy, used when the session builds a
// scratch context for a dispatch attempt.
func (r *Randomizer) Clone() *Randomizer {
	out := *r
	return &out
}

// nextWindow implements next_draw(): it increments nonce, doubles the
// point when the new nonce is odd, then selects a 64-bit little-endian
// window from the point's seed-byte encoding, alternating between the
// high and low half on successive calls.
func (r *Randomizer) nextWindow() uint64 {
	r.nonce++
	if r.nonce%2 == 1 {
		r.current = curve.Double(r.current)
	}

	b := r.current.SeedBytesOf()
	var window []byte
	if r.nonce%2 == 1 {
		window = b[24:32]
	} else {
		window = b[16:24]
	}
	return binary.LittleEndian.Uint64(window)
}

// RandU32 draws the next 32-bit output, mixed through XSH-RS.
func (r *Randomizer) RandU32() uint32 {
	return pcg.XSHRS(r.nextWindow())
}

// RandU64 draws the next 64-bit output, mixed through RXS-M-XS.
func (r *Randomizer) RandU64() uint64 {
	return pcg.RXSMXS(r.nextWindow())
}
