// Package curve adapts a pairing-friendly-curve style interface (point
// addition, doubling, 16-word canonical serialization) onto the ristretto255
// group, the only curve library carried by the surrounding stack.
package curve

import (
	"crypto/rand"
	"fmt"

	"github.com/gtank/ristretto255"
)

// SeedWords is the fixed 16-word (64-byte) canonical shape digest and draw
// algorithms are fixed against. A ristretto255 element compresses to a
// single 32-byte group encoding rather than a BN254-style affine (x,y) pair,
// so SeedBytesOf packs that 32-byte encoding into the low 8 words and leaves
// the high 8 words zero. The digest seeds on all 64 bytes, so the constant
// zero tail is absorbed too; the randomizer windows only into bytes [16,32).
const SeedWords = 16
const SeedBytes = SeedWords * 4

// Scalar is a ristretto255 scalar in canonical little-endian form.
type Scalar struct {
	v ristretto255.Scalar
}

func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, fmt.Errorf("curve: scalar requires 32 bytes, got %d", len(b))
	}
	var s Scalar
	if _, err := s.v.SetCanonicalBytes(b); err != nil {
		return Scalar{}, fmt.Errorf("curve: non-canonical scalar: %w", err)
	}
	return s, nil
}

// RandomScalar samples a uniformly random scalar using a crypto-grade
// source, reducing 64 uniform bytes into the scalar field.
func RandomScalar() (Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Scalar{}, fmt.Errorf("curve: reading randomness: %w", err)
	}
	var s Scalar
	s.v.FromUniformBytes(buf[:])
	return s, nil
}

func (s Scalar) Bytes() []byte {
	return s.v.Bytes()
}

// Point is a ristretto255 group element.
type Point struct {
	v ristretto255.Element
}

// Identity returns the additive identity (point at infinity equivalent).
func Identity() Point {
	var p Point
	p.v.Zero()
	return p
}

// Base returns the distinguished generator G.
func Base() Point {
	var p Point
	p.v.Base()
	return p
}

// MulBase computes s*G.
func MulBase(s Scalar) Point {
	var p Point
	p.v.ScalarBaseMult(&s.v)
	return p
}

// Mul computes s*P.
func Mul(p Point, s Scalar) Point {
	var out Point
	out.v.ScalarMult(&s.v, &p.v)
	return out
}

// Add computes a curve addition.
func Add(a, b Point) Point {
	var out Point
	out.v.Add(&a.v, &b.v)
	return out
}

// Double computes a curve doubling.
func Double(a Point) Point {
	var out Point
	out.v.Add(&a.v, &a.v)
	return out
}

// Sum folds a list of points under curve addition, left to right. The
// randomizer's initial-state construction uses this with the server seed
// first and player seed(s) following.
func Sum(points ...Point) Point {
	out := Identity()
	for _, p := range points {
		out = Add(out, p)
	}
	return out
}

func (p Point) Equal(q Point) bool {
	return p.v.Equal(&q.v) == 1
}

// SeedBytesOf returns the canonical 16-word (64-byte) serialization. See
// the SeedWords doc comment for the packing rule.
func (p Point) SeedBytesOf() [SeedBytes]byte {
	var out [SeedBytes]byte
	copy(out[:32], p.v.Encode(nil))
	return out
}

// PointFromSeedBytes is the inverse of SeedBytesOf.
func PointFromSeedBytes(b []byte) (Point, error) {
	if len(b) != SeedBytes {
		return Point{}, fmt.Errorf("curve: seed point requires %d bytes, got %d", SeedBytes, len(b))
	}
	var p Point
	p.v.Zero()
	if err := p.v.Decode(b[:32]); err != nil {
		return Point{}, fmt.Errorf("curve: non-canonical point: %w", err)
	}
	for _, bb := range b[32:] {
		if bb != 0 {
			return Point{}, fmt.Errorf("curve: non-zero high words in seed point encoding")
		}
	}
	return p, nil
}
