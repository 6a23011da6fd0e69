// Package session implements the host-side replayable instance: it
// mirrors the fold engine's semantics outside the circuit, adding
// crash-safe panic capture around dispatch and stdin materialization for
// the prover. Dispatch clones a scratch context, applies the reducer, and
// commits only on success, extending the action log after the fact.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/turbofold/foldengine/internal/apperr"
	"github.com/turbofold/foldengine/internal/codec"
	"github.com/turbofold/foldengine/internal/context"
	"github.com/turbofold/foldengine/internal/curve"
	"github.com/turbofold/foldengine/internal/fold"
	"github.com/turbofold/foldengine/internal/reducer"
)

// Session is one host-side replayable instance of a reducer. It is safe
// for concurrent use: every public method that touches mutable state
// acquires mu first, serializing dispatch through a single session-level
// lock.
type Session[Pub reducer.PublicState, Priv any] struct {
	mu sync.Mutex

	engine *fold.Engine[Pub, Priv]

	serverSeed      curve.Point
	serverSeedBytes [curve.SeedBytes]byte

	playerSeedBytes [][curve.SeedBytes]byte
	playerContexts  []*context.Inner
	clientResponses []any

	actionLog []byte

	public  Pub
	private *Priv

	bricked    bool
	brickedErr error
}

// New builds a fresh session around reduce, sampling a random scalar and
// computing server_seed = G * s. newPublic and newPrivate construct the
// reducer's default states.
func New[Pub reducer.PublicState, Priv any](
	reduce reducer.Func[Pub, Priv],
	newPublic func() Pub,
	newPrivate func() *Priv,
) (*Session[Pub, Priv], error) {
	scalar, err := curve.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "sampling server seed")
	}
	serverSeed := curve.MulBase(scalar)

	return &Session[Pub, Priv]{
		engine:          fold.New(reduce),
		serverSeed:      serverSeed,
		serverSeedBytes: serverSeed.SeedBytesOf(),
		public:          newPublic(),
		private:         newPrivate(),
	}, nil
}

// Join appends a player with the given seed point, builds its per-player
// context (randomizer seeded from server_seed + player_seed, digest
// pre-loaded with the initial point encoding), and returns its new
// positional index. Errors with TooManyPlayers once index would reach
// codec.MaxPlayerIndex.
func (s *Session[Pub, Priv]) Join(playerSeed curve.Point) (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := len(s.playerContexts)
	if index >= codec.MaxPlayerIndex {
		return 0, apperr.New(apperr.KindTooManyPlayers, "session already has %d players", index)
	}

	inner := context.NewInner(s.serverSeed, playerSeed, uint8(index))
	s.playerContexts = append(s.playerContexts, inner)
	s.playerSeedBytes = append(s.playerSeedBytes, playerSeed.SeedBytesOf())
	s.clientResponses = append(s.clientResponses, nil)

	return uint8(index), nil
}

// JoinRandom samples a fresh player scalar, derives its seed point, and
// joins it.
func (s *Session[Pub, Priv]) JoinRandom() (uint8, error) {
	scalar, err := curve.RandomScalar()
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, err, "sampling player seed")
	}
	return s.Join(curve.MulBase(scalar))
}

// Bricked reports whether a prior dispatch poisoned this session.
func (s *Session[Pub, Priv]) Bricked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bricked
}

// Dispatch applies exactly one raw wire frame. It requires the session not
// be bricked and rawFrame to parse as a single complete frame. A scratch
// clone of the acting player's inner context absorbs the frame and runs
// the reducer under a panic guard; only on success is the clone committed
// back and rawFrame appended to the action log, leaving it unchanged on
// failure. A reducer panic bricks the session and is reported as
// ReducerFault; the session remains queryable afterward but rejects
// further dispatch.
func (s *Session[Pub, Priv]) Dispatch(rawFrame []byte) (clientResponse any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bricked {
		return nil, apperr.New(apperr.KindReducerFault, "session is bricked: %v", s.brickedErr)
	}

	playerIndex, prefixBytes, body, rest, err := codec.ReadFrame(rawFrame)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, apperr.New(apperr.KindMalformedAction, "dispatch requires exactly one frame, %d trailing bytes", len(rest))
	}
	if int(playerIndex) >= len(s.playerContexts) {
		return nil, apperr.New(apperr.KindInvalidPlayerIndex, "no joined player at index %d", playerIndex)
	}

	scratch := s.playerContexts[playerIndex].Clone()
	prefixAndBody := make([]byte, 0, len(prefixBytes)+len(body))
	prefixAndBody = append(prefixAndBody, prefixBytes...)
	prefixAndBody = append(prefixAndBody, body...)

	response, dispatchErr := s.applyGuarded(scratch, s.serverSeedBytes, s.playerSeedBytes[playerIndex], prefixAndBody, body)
	if dispatchErr != nil {
		if e, ok := apperr.As(dispatchErr); ok && e.Kind == apperr.KindReducerFault {
			s.bricked = true
			s.brickedErr = dispatchErr
		}
		return nil, dispatchErr
	}

	s.playerContexts[playerIndex] = scratch
	s.clientResponses[playerIndex] = response
	s.actionLog = append(s.actionLog, rawFrame...)

	return response, nil
}

// applyGuarded runs the reducer through the fold engine's single-frame
// path, converting a reducer panic into a ReducerFault instead of
// letting it unwind into the caller.
func (s *Session[Pub, Priv]) applyGuarded(
	scratch *context.Inner,
	serverSeedBytes, playerSeedBytes [curve.SeedBytes]byte,
	prefixAndBody, body []byte,
) (clientResponse any, err error) {
	defer func() {
		if r := recover(); r != nil {
			clientResponse = nil
			err = apperr.New(apperr.KindReducerFault, "reducer panicked: %v", r)
		}
	}()

	_, response, applyErr := s.engine.ApplyFrame(scratch, serverSeedBytes, playerSeedBytes, prefixAndBody, body, s.public, s.private)
	if applyErr != nil {
		return nil, applyErr
	}
	return response, nil
}

// StdinBundle returns the three length-prefixed blobs the prover consumes
// as stdin: server metadata, the ordered player metadata list, and the
// raw action log, each encoded with its own 4-byte big-endian length
// prefix so the triple can be concatenated unambiguously.
func (s *Session[Pub, Priv]) StdinBundle() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerMetadata := make([]byte, 0, len(s.playerSeedBytes)*curve.SeedBytes)
	for _, b := range s.playerSeedBytes {
		playerMetadata = append(playerMetadata, b[:]...)
	}

	out := make([]byte, 0, 4+curve.SeedBytes+4+len(playerMetadata)+4+len(s.actionLog))
	out = appendLenPrefixed(out, s.serverSeedBytes[:])
	out = appendLenPrefixed(out, playerMetadata)
	out = appendLenPrefixed(out, s.actionLog)
	return out
}

func appendLenPrefixed(dst []byte, blob []byte) []byte {
	var lenBytes [4]byte
	n := uint32(len(blob))
	lenBytes[0] = byte(n >> 24)
	lenBytes[1] = byte(n >> 16)
	lenBytes[2] = byte(n >> 8)
	lenBytes[3] = byte(n)
	dst = append(dst, lenBytes[:]...)
	return append(dst, blob...)
}

// Snapshot is the JSON shape Snapshot(player_index) returns: the public
// state plus the optional client response the reducer wrote into that
// player's context during the most recent successful dispatch.
type Snapshot struct {
	PublicState    json.RawMessage `json:"public_state"`
	ClientResponse any             `json:"client_response,omitempty"`
}

// Snapshot returns the current public state plus playerIndex's most
// recent client response.
func (s *Session[Pub, Priv]) Snapshot(playerIndex uint8) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(playerIndex) >= len(s.playerContexts) {
		return Snapshot{}, apperr.New(apperr.KindInvalidPlayerIndex, "no joined player at index %d", playerIndex)
	}

	publicBytes, err := json.Marshal(publicStateView{Encoded: s.public.Encode()})
	if err != nil {
		return Snapshot{}, apperr.Wrap(apperr.KindInternal, err, "marshaling public state")
	}

	return Snapshot{
		PublicState:    publicBytes,
		ClientResponse: s.clientResponses[playerIndex],
	}, nil
}

// EncodedPublicState returns the reducer's current canonical byte
// encoding, satisfying queue.StdinSource so a proof job can record the
// decoded public state alongside its cycle count and public values.
func (s *Session[Pub, Priv]) EncodedPublicState() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.public.Encode()
}

// publicStateView wraps a reducer's canonical byte encoding for JSON
// transport; the reducer itself only promises Encode() []byte, not a JSON
// shape, so the session renders it as a hex string here rather than
// assuming any particular structure.
type publicStateView struct {
	Encoded []byte `json:"-"`
}

func (v publicStateView) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%x"`, v.Encoded)), nil
}

// PlayerCount returns the number of joined players.
func (s *Session[Pub, Priv]) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.playerContexts)
}
