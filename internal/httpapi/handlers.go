package httpapi

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/turbofold/foldengine/internal/apperr"
	"github.com/turbofold/foldengine/internal/codec"
	"github.com/turbofold/foldengine/internal/prover"
	"github.com/turbofold/foldengine/internal/queue"
	"github.com/turbofold/foldengine/internal/reducer/puzzle"
	"github.com/turbofold/foldengine/internal/session"
)

type puzzleSession = session.Session[*puzzle.State, puzzle.Private]

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := apperr.ToBody(err)
	w.WriteHeader(status)
	writeJSON(w, body)
}

// executeRequest is the body POST /execute and POST /prove/{kind}
// accept: either a session to reuse, or none (a fresh one is created), a
// player index to dispatch on behalf of (a fresh player joins if omitted),
// and the actions themselves as either textual frames or a single raw hex
// blob of already-encoded wire frames.
type executeRequest struct {
	SessionID   *string           `json:"session_id,omitempty"`
	PlayerIndex *uint8            `json:"player_index,omitempty"`
	Actions     []json.RawMessage `json:"actions,omitempty"`
	Hex         string            `json:"hex,omitempty"`
}

// dispatchRequest creates or looks up a session per req, joins a player if
// needed, encodes/dispatches every action, and returns the session id, the
// acting player index, and the session handle for follow-up (execute's
// snapshot or prove's stdin bundle).
func (s *Server) dispatchRequest(req executeRequest) (id string, playerIndex uint8, sess *puzzleSession, err error) {
	if req.SessionID != nil {
		id = *req.SessionID
		sess, err = s.Registry.Get(id)
		if err != nil {
			return "", 0, nil, err
		}
	} else {
		id, sess, err = s.Registry.Create()
		if err != nil {
			return "", 0, nil, err
		}
	}

	if req.PlayerIndex != nil {
		playerIndex = *req.PlayerIndex
	} else {
		playerIndex, err = sess.JoinRandom()
		if err != nil {
			return "", 0, nil, err
		}
	}

	if req.Hex != "" {
		raw, hexErr := hex.DecodeString(req.Hex)
		if hexErr != nil {
			return "", 0, nil, apperr.New(apperr.KindMalformedAction, "invalid hex action stream: %v", hexErr)
		}
		for len(raw) > 0 {
			_, _, body, rest, frameErr := codec.ReadFrame(raw)
			if frameErr != nil {
				return "", 0, nil, frameErr
			}
			frame, encErr := codec.EncodeFrame(playerIndex, body)
			if encErr != nil {
				return "", 0, nil, encErr
			}
			if _, dispatchErr := sess.Dispatch(frame); dispatchErr != nil {
				return "", 0, nil, dispatchErr
			}
			raw = rest
		}
	}

	for _, textual := range req.Actions {
		body, encErr := codec.EncodeFromText(textual)
		if encErr != nil {
			return "", 0, nil, encErr
		}
		frame, frameErr := codec.EncodeFrame(playerIndex, body)
		if frameErr != nil {
			return "", 0, nil, frameErr
		}
		if _, dispatchErr := sess.Dispatch(frame); dispatchErr != nil {
			return "", 0, nil, dispatchErr
		}
	}

	return id, playerIndex, sess, nil
}

// handleExecute creates or reuses a session, dispatches the submitted
// actions, runs the prover's Execute (cycle count only, no proof), and
// returns the decoded state plus cycle count.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindMalformedText, err, "decoding request body"))
		return
	}

	id, playerIndex, sess, err := s.dispatchRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := sess.Snapshot(playerIndex)
	if err != nil {
		writeError(w, err)
		return
	}

	cycles, err := s.Prover.Execute(programImage, sess.StdinBundle())
	if err != nil {
		writeError(w, apperr.Wrap(apperr.KindProverSetupFailed, err, "execute failed"))
		return
	}

	writeJSON(w, struct {
		SessionID      string          `json:"session_id"`
		PlayerIndex    uint8           `json:"player_index"`
		PublicState    json.RawMessage `json:"public_state"`
		ClientResponse any             `json:"client_response,omitempty"`
		Cycles         uint64          `json:"cycles"`
	}{
		SessionID:      id,
		PlayerIndex:    playerIndex,
		PublicState:    snap.PublicState,
		ClientResponse: snap.ClientResponse,
		Cycles:         cycles,
	})
}

// handleProve creates or reuses a session, dispatches the submitted
// actions, and enqueues a proof job, returning its task id.
func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	kindParam := mux.Vars(r)["kind"]
	kind, ok := prover.ParseProofKind(kindParam)
	if !ok {
		writeError(w, apperr.New(apperr.KindInvalidProofKind, "unknown proof kind %q", kindParam))
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindMalformedText, err, "decoding request body"))
		return
	}

	_, _, sess, err := s.dispatchRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}

	taskID := s.Queue.Submit(sess, kind, s.Prover, programImage)
	writeJSON(w, struct {
		ProofID string `json:"proof_id"`
	}{ProofID: taskID})
}

// handleProofStatus returns the current status of a submitted proof job; a
// job that ended in error is reported with 400 and its message.
func (s *Server) handleProofStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status, err := s.Queue.Status(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if status.State == queue.StateError {
		w.WriteHeader(http.StatusBadRequest)
	}
	writeJSON(w, status)
}
