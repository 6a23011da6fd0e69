package digest

import "math/big"

// limbsToBigInt reinterprets eight little-endian uint32 limbs as a
// big.Int, matching the zkVM bigint syscall's word order.
func limbsToBigInt(limbs [Limbs]uint32) *big.Int {
	// big.Int.SetBytes expects big-endian; limbs are ordered
	// least-significant first, so walk them in reverse.
	var b [Limbs * 4]byte
	for i := 0; i < Limbs; i++ {
		w := limbs[Limbs-1-i]
		b[i*4+0] = byte(w >> 24)
		b[i*4+1] = byte(w >> 16)
		b[i*4+2] = byte(w >> 8)
		b[i*4+3] = byte(w)
	}
	return new(big.Int).SetBytes(b[:])
}

// bigIntToLimbs is the inverse of limbsToBigInt, zero-padding to the fixed
// 256-bit width.
func bigIntToLimbs(v *big.Int) [Limbs]uint32 {
	be := v.Bytes()
	var full [Limbs * 4]byte
	copy(full[len(full)-len(be):], be)

	var out [Limbs]uint32
	for i := 0; i < Limbs; i++ {
		// full is big-endian; limb i (little-endian overall) is the
		// (Limbs-1-i)'th big-endian word.
		off := (Limbs - 1 - i) * 4
		out[i] = uint32(full[off])<<24 | uint32(full[off+1])<<16 | uint32(full[off+2])<<8 | uint32(full[off+3])
	}
	return out
}
