package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/turbofold/foldengine/internal/apperr"
	"github.com/turbofold/foldengine/internal/codec"
	"github.com/turbofold/foldengine/internal/prover"
)

// wsEnvelope is the minimal shape every inbound WebSocket message is
// first parsed as, to decide whether it is a `__syscall` control command
// or an action batch.
type wsEnvelope struct {
	Syscall string `json:"__syscall"`
}

type joinSessionRequest struct {
	Syscall   string  `json:"__syscall"`
	SessionID *string `json:"session_id,omitempty"`
}

type proofRequest struct {
	Syscall string          `json:"__syscall"`
	Kind    string          `json:"kind"`
	Actions []json.RawMessage `json:"actions"`
}

type proofStatusRequest struct {
	Syscall string `json:"__syscall"`
	ProofID string `json:"proof_id"`
}

// connState is the per-connection state the WebSocket handler tracks
// across messages: which session and player index this socket speaks for.
type connState struct {
	session     *puzzleSession
	sessionID   string
	playerIndex uint8
	joined      bool
}

// handleWS serves `WS /ws`: line-delimited JSON messages, a
// `__syscall`-keyed control vocabulary, and otherwise an action batch
// dispatched on behalf of the connection's joined player.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("websocket: accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	if err := writeJSONMessage(ctx, conn, map[string]any{"__state": "waiting"}); err != nil {
		return
	}

	state := &connState{}
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		s.handleWSMessage(ctx, conn, state, data)
	}
}

func (s *Server) handleWSMessage(ctx context.Context, conn *websocket.Conn, state *connState, data []byte) {
	var env wsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		writeWSError(ctx, conn, apperr.Wrap(apperr.KindMalformedText, err, "decoding websocket message"))
		return
	}

	switch env.Syscall {
	case "join_session":
		s.handleJoinSession(ctx, conn, state, data)
	case "proof":
		s.handleWSProof(ctx, conn, state, data)
	case "proof_status":
		s.handleWSProofStatus(ctx, conn, data)
	case "":
		s.handleWSActionBatch(ctx, conn, state, data)
	default:
		writeWSError(ctx, conn, apperr.New(apperr.KindMalformedText, "unknown __syscall %q", env.Syscall))
	}
}

func (s *Server) handleJoinSession(ctx context.Context, conn *websocket.Conn, state *connState, data []byte) {
	var req joinSessionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeWSError(ctx, conn, apperr.Wrap(apperr.KindMalformedText, err, "decoding join_session"))
		return
	}

	var (
		id   string
		sess *puzzleSession
		err  error
	)
	if req.SessionID != nil {
		id = *req.SessionID
		sess, err = s.Registry.Get(id)
	} else {
		id, sess, err = s.Registry.Create()
	}
	if err != nil {
		writeWSError(ctx, conn, err)
		return
	}

	playerIndex, err := sess.JoinRandom()
	if err != nil {
		writeWSError(ctx, conn, err)
		return
	}

	state.session = sess
	state.sessionID = id
	state.playerIndex = playerIndex
	state.joined = true

	writeJSONMessage(ctx, conn, map[string]any{
		"__state":      "ready",
		"__session_id": id,
		"player_index": playerIndex,
	})
}

func (s *Server) handleWSActionBatch(ctx context.Context, conn *websocket.Conn, state *connState, data []byte) {
	if !state.joined {
		writeWSError(ctx, conn, apperr.New(apperr.KindSessionNotFound, "join_session before dispatching actions"))
		return
	}

	var actions []json.RawMessage
	if err := json.Unmarshal(data, &actions); err != nil {
		writeWSError(ctx, conn, apperr.Wrap(apperr.KindMalformedText, err, "decoding action batch"))
		return
	}

	for _, textual := range actions {
		body, err := codec.EncodeFromText(textual)
		if err != nil {
			writeWSError(ctx, conn, err)
			return
		}
		frame, err := codec.EncodeFrame(state.playerIndex, body)
		if err != nil {
			writeWSError(ctx, conn, err)
			return
		}
		if _, err := state.session.Dispatch(frame); err != nil {
			writeWSError(ctx, conn, err)
			return
		}
	}

	snap, err := state.session.Snapshot(state.playerIndex)
	if err != nil {
		writeWSError(ctx, conn, err)
		return
	}
	writeJSONMessage(ctx, conn, snap)
}

func (s *Server) handleWSProof(ctx context.Context, conn *websocket.Conn, state *connState, data []byte) {
	if !state.joined {
		writeWSError(ctx, conn, apperr.New(apperr.KindSessionNotFound, "join_session before requesting a proof"))
		return
	}

	var req proofRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeWSError(ctx, conn, apperr.Wrap(apperr.KindMalformedText, err, "decoding proof request"))
		return
	}
	kindName := req.Kind
	if kindName == "" {
		kindName = string(prover.KindCore)
	}
	kind, ok := prover.ParseProofKind(kindName)
	if !ok {
		writeWSError(ctx, conn, apperr.New(apperr.KindInvalidProofKind, "unknown proof kind %q", req.Kind))
		return
	}

	for _, textual := range req.Actions {
		body, err := codec.EncodeFromText(textual)
		if err != nil {
			writeWSError(ctx, conn, err)
			return
		}
		frame, err := codec.EncodeFrame(state.playerIndex, body)
		if err != nil {
			writeWSError(ctx, conn, err)
			return
		}
		if _, err := state.session.Dispatch(frame); err != nil {
			writeWSError(ctx, conn, err)
			return
		}
	}

	taskID := s.Queue.Submit(state.session, kind, s.Prover, programImage)
	writeJSONMessage(ctx, conn, map[string]any{"proof_id": taskID})
}

func (s *Server) handleWSProofStatus(ctx context.Context, conn *websocket.Conn, data []byte) {
	var req proofStatusRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeWSError(ctx, conn, apperr.Wrap(apperr.KindMalformedText, err, "decoding proof_status request"))
		return
	}
	status, err := s.Queue.Status(req.ProofID)
	if err != nil {
		writeWSError(ctx, conn, err)
		return
	}
	writeJSONMessage(ctx, conn, status)
}

func writeJSONMessage(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func writeWSError(ctx context.Context, conn *websocket.Conn, err error) {
	_, body := apperr.ToBody(err)
	logrus.WithError(err).Debug("websocket: returning error to client")
	_ = writeJSONMessage(ctx, conn, body)
}
