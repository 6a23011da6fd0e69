// Package demoprover supplies a deterministic, cheap in-process stand-in
// for the prover.Prover interface, so the queue and HTTP surface are
// independently testable without a real zkVM toolchain. "Proofs" here are
// a hash of (image, stdin, kind), not a zero-knowledge artifact.
package demoprover

import (
	"crypto/sha256"
	"fmt"

	"github.com/turbofold/foldengine/internal/prover"
)

// Prover is the demo stand-in. It has no internal state beyond what a
// call needs, so a single zero-value instance may be shared.
type Prover struct{}

// New returns a ready-to-use demo prover.
func New() *Prover {
	return &Prover{}
}

// Setup derives a deterministic "proving key"/"verifying key" pair from
// image alone, so repeated calls for the same image agree (the queue's
// setup cache relies on this).
func (Prover) Setup(image []byte) (provingKey, verifyingKey []byte, err error) {
	pk := sha256.Sum256(append([]byte("pk:"), image...))
	vk := sha256.Sum256(append([]byte("vk:"), image...))
	return pk[:], vk[:], nil
}

// Execute reports a deterministic cycle count proportional to the combined
// length of image and stdin, standing in for a real guest-program trace
// length.
func (Prover) Execute(image, stdin []byte) (cycles uint64, err error) {
	return uint64(len(image)+len(stdin)) * 97, nil
}

// Prove derives the "public values" as the session's encoded public state
// is not visible to this package; callers pass stdin verbatim and this
// demo commits to a digest of (kind, image, provingKey, stdin) as both the
// proof and a stable derived "public values" placeholder.
func (Prover) Prove(kind prover.ProofKind, image, stdin, provingKey []byte) (proof, publicValues []byte, err error) {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write(image)
	h.Write(provingKey)
	h.Write(stdin)
	digest := h.Sum(nil)

	proof = digest
	publicValues = digest[:16]
	return proof, publicValues, nil
}

// Verify checks that publicValues is the prefix Prove would have produced
// for this digest. The demo proof already embeds its own public values, so
// verifyingKey is not needed to recompute them — a real prover's Verify
// would instead check the proof against verifyingKey cryptographically.
func (Prover) Verify(kind prover.ProofKind, proof, verifyingKey, publicValues []byte) (bool, error) {
	if len(proof) < 16 {
		return false, fmt.Errorf("demoprover: proof too short: %d bytes", len(proof))
	}
	return string(proof[:16]) == string(publicValues), nil
}
