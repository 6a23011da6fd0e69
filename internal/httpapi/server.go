// Package httpapi implements the request surface: HTTP endpoints for
// execute/prove/status and a WebSocket command channel, dispatching
// against a registry of sessions built around one concrete reducer.
package httpapi

import (
	"github.com/sirupsen/logrus"

	"github.com/turbofold/foldengine/internal/prover"
	"github.com/turbofold/foldengine/internal/queue"
	"github.com/turbofold/foldengine/internal/reducer/puzzle"
	"github.com/turbofold/foldengine/internal/registry"
)

// programImage stands in for the compiled zkVM guest binary; this module
// does not ship a real zkVM toolchain, so a fixed label is what
// prover.Prover.Setup/Execute/Prove receive as their "image", treated
// opaquely throughout.
var programImage = []byte("foldengine-puzzle-guest-v1")

// Server bundles everything a handler needs: the session registry for the
// illustrative puzzle reducer, the proof queue, the prover implementation,
// and a logger.
type Server struct {
	Registry *registry.Registry[*puzzle.State, puzzle.Private]
	Queue    *queue.Queue
	Prover   prover.Prover
	Log      *logrus.Logger
}

// New wires a Server around a fresh registry for the puzzle reducer and
// the given queue/prover/logger.
func New(q *queue.Queue, p prover.Prover, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		Registry: registry.New(puzzle.Reduce, puzzle.NewState, puzzle.NewPrivate),
		Queue:    q,
		Prover:   p,
		Log:      log,
	}
}
