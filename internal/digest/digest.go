// Package digest implements a rolling 256-bit FNV-1a variant that packs
// four absorbed bytes into a single modular multiplication, reduced
// modulo the BN254 scalar field.
package digest

// Limbs is the number of little-endian 32-bit limbs composing the 256-bit
// accumulator.
const Limbs = 8

// offset is the FNV-1a offset basis reduced into the BN254 scalar field, as
// eight little-endian uint32 limbs, least-significant limb first.
var offset = [Limbs]uint32{
	0x68fa1019, 0x1fa1846d, 0xa5ef917e, 0x6aaba922,
	0xbee01556, 0x4c57acaa, 0x25fecf8f, 0x1b9553f1,
}

// prime is the 256-bit FNV multiplier (2^168 + 0x163), least-significant
// limb first.
var prime = [Limbs]uint32{
	0x00000163, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000100, 0x00000000, 0x00000000,
}

// modulus is the BN254 scalar field modulus, least-significant limb first.
var modulus = [Limbs]uint32{
	0xd87cfd47, 0x3c208c16, 0x6871ca8d, 0x97816a91,
	0x8181585d, 0xb85045b6, 0xe131a029, 0x30644e72,
}

// Digest is the rolling accumulator a single player context owns.
type Digest struct {
	hash  [Limbs]uint32
	shift uint32
}

// New returns a fresh digest at the FNV offset basis.
func New() *Digest {
	d := &Digest{hash: offset}
	return d
}

// Absorb folds one byte into the accumulator.
func (d *Digest) Absorb(b byte) {
	if d.shift >= 32 {
		d.hash = mulMod(d.hash, prime, modulus)
		d.shift = 0
	}
	d.hash[0] ^= uint32(b) << d.shift
	d.shift++
}

// AbsorbBytes folds a byte slice in order.
func (d *Digest) AbsorbBytes(bs []byte) {
	for _, b := range bs {
		d.Absorb(b)
	}
}

// Snapshot returns the eight little-endian limbs of the current
// accumulator. The returned array is a copy; mutating it does not affect
// the digest.
func (d *Digest) Snapshot() [Limbs]uint32 {
	return d.hash
}

// Clone returns an independent copy of the digest, used when the session
// builds a scratch context for a dispatch attempt.
func (d *Digest) Clone() *Digest {
	out := *d
	return &out
}

// mulMod computes (a * b) mod m over 256-bit values represented as eight
// little-endian 32-bit limbs, converting to big.Int for both the
// multiplication and the reduction. The limb layout
// mirrors the zkVM's syscall-accelerated bigint convention exactly so traces
// agree byte-for-byte with the in-circuit execution.
func mulMod(a, b, m [Limbs]uint32) [Limbs]uint32 {
	ai := limbsToBigInt(a)
	bi := limbsToBigInt(b)
	mi := limbsToBigInt(m)

	ai.Mul(ai, bi)
	ai.Mod(ai, mi)

	return bigIntToLimbs(ai)
}
