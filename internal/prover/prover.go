// Package prover fixes the external zkVM prover contract: setup, execute,
// prove, and verify, modeled here as an interface so the queue and HTTP
// surface can be exercised without a real SP1-style toolchain. A demo
// stand-in implementation lives in internal/prover/demoprover.
package prover

// ProofKind enumerates the proof variants a job may request.
type ProofKind string

const (
	KindCore        ProofKind = "core"
	KindCompressed  ProofKind = "compressed"
	KindSuccinctA   ProofKind = "succinct-a"
	KindSuccinctB   ProofKind = "succinct-b"
)

// ParseProofKind validates a textual proof kind (used by the HTTP route
// parameter), returning false on anything else; the callers turn that into
// InvalidProofKind.
func ParseProofKind(s string) (ProofKind, bool) {
	switch ProofKind(s) {
	case KindCore, KindCompressed, KindSuccinctA, KindSuccinctB:
		return ProofKind(s), true
	default:
		return "", false
	}
}

// Prover is the external zkVM toolchain collaborator. image identifies the
// guest program; stdin is the session's StdinBundle encoding.
type Prover interface {
	// Setup derives the proving and verifying keys for image, typically an
	// expensive one-time operation the caller should memoize.
	Setup(image []byte) (provingKey, verifyingKey []byte, err error)

	// Execute runs image against stdin without generating a proof,
	// returning a cycle count and surfacing guest-program failures early.
	Execute(image, stdin []byte) (cycles uint64, err error)

	// Prove generates a proof of kind for image/stdin under provingKey,
	// returning the proof bytes and the committed public values.
	Prove(kind ProofKind, image, stdin, provingKey []byte) (proof, publicValues []byte, err error)

	// Verify checks proof against verifyingKey and the claimed
	// publicValues.
	Verify(kind ProofKind, proof, verifyingKey, publicValues []byte) (bool, error)
}
