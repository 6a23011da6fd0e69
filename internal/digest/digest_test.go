package digest

import "testing"

func TestAbsorbAssociativeOverConcatenation(t *testing.T) {
	whole := []byte("the-quick-brown-fox-jumps-over-the-lazy-dog-0123456789")

	a := New()
	a.AbsorbBytes(whole)

	b := New()
	b.AbsorbBytes(whole[:10])
	b.AbsorbBytes(whole[10:23])
	b.AbsorbBytes(whole[23:])

	if a.Snapshot() != b.Snapshot() {
		t.Fatalf("absorb is not associative over concatenation:\n got  %x\n want %x", b.Snapshot(), a.Snapshot())
	}
}

func TestAbsorbDependsOnlyOnByteSequence(t *testing.T) {
	x := New()
	y := New()
	for i := 0; i < 200; i++ {
		x.Absorb(byte(i))
	}
	for i := 0; i < 200; i++ {
		y.Absorb(byte(i))
	}
	if x.Snapshot() != y.Snapshot() {
		t.Fatalf("identical byte sequences produced different digests")
	}
}

func TestAbsorbDivergesOnDifferentBytes(t *testing.T) {
	x := New()
	x.AbsorbBytes([]byte{1, 2, 3})
	y := New()
	y.AbsorbBytes([]byte{1, 2, 4})
	if x.Snapshot() == y.Snapshot() {
		t.Fatalf("different byte sequences produced the same digest")
	}
}

func TestSnapshotStartsAtOffsetBasis(t *testing.T) {
	d := New()
	got := d.Snapshot()
	if got != offset {
		t.Fatalf("fresh digest snapshot = %x, want offset basis %x", got, offset)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := New()
	d.AbsorbBytes([]byte{1, 2, 3})
	clone := d.Clone()
	clone.AbsorbBytes([]byte{4, 5, 6})
	if d.Snapshot() == clone.Snapshot() {
		t.Fatalf("mutating a clone affected the original")
	}
}

func TestMulModWrapsAtShiftBoundary(t *testing.T) {
	d := New()
	for i := 0; i < 32; i++ {
		d.Absorb(0xFF)
	}
	before := d.Snapshot()
	d.Absorb(0x01) // triggers the 33rd absorb, which must fold with PRIME/MODULUS first
	after := d.Snapshot()
	if before == after {
		t.Fatalf("expected the 33rd absorb to change the accumulator via modular multiplication")
	}
}
