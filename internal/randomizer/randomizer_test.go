package randomizer

import (
	"testing"

	"github.com/turbofold/foldengine/internal/curve"
)

func TestNonceMonotonicAndDoublingInvariant(t *testing.T) {
	seed := curve.MulBase(mustScalar(t, 7))
	r := NewWithSeeds(seed)

	initial := seed
	doublings := 0
	for k := uint64(1); k <= 9; k++ {
		r.RandU32()
		if r.Nonce() != k {
			t.Fatalf("nonce = %d, want %d", r.Nonce(), k)
		}
		if k%2 == 1 {
			doublings++
		}
		want := initial
		for i := 0; i < doublings; i++ {
			want = curve.Double(want)
		}
		if !r.Current().Equal(want) {
			t.Fatalf("after %d draws: current does not equal initial doubled %d times", k, doublings)
		}
	}
}

func TestDeterministicGivenSameSeed(t *testing.T) {
	seed := curve.MulBase(mustScalar(t, 42))
	a := NewWithSeeds(seed)
	b := NewWithSeeds(seed)

	for i := 0; i < 16; i++ {
		av := a.RandU32()
		bv := b.RandU32()
		if av != bv {
			t.Fatalf("draw %d diverged: %d != %d", i, av, bv)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	seed := curve.MulBase(mustScalar(t, 1))
	r := NewWithSeeds(seed)
	r.RandU32()
	clone := r.Clone()
	clone.RandU32()
	clone.RandU32()
	if r.Nonce() == clone.Nonce() {
		t.Fatalf("mutating a clone affected the original's nonce")
	}
}

func TestU64DrawUsesDistinctMixer(t *testing.T) {
	seed := curve.MulBase(mustScalar(t, 99))
	r := NewWithSeeds(seed)
	got := r.RandU64()
	if got == 0 {
		t.Fatalf("RandU64 returned zero, suspicious for a mixed output")
	}
	// A same-seed RandU32 reads the same window, mixed through XSH-RS instead.
	if u32 := NewWithSeeds(seed).RandU32(); got == uint64(u32) {
		t.Fatalf("RandU64 and RandU32 produced the same value from the same window")
	}
}

func mustScalar(t *testing.T, x uint64) curve.Scalar {
	t.Helper()
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(x >> (8 * i))
	}
	s, err := curve.ScalarFromCanonicalBytes(b[:])
	if err != nil {
		t.Fatalf("ScalarFromCanonicalBytes: %v", err)
	}
	return s
}
