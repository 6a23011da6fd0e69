// Package registry implements a session registry: a keyed set of sessions
// with concurrent access, generalized from a single connection map to
// session handles keyed by a generated id.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/turbofold/foldengine/internal/apperr"
	"github.com/turbofold/foldengine/internal/reducer"
	"github.com/turbofold/foldengine/internal/session"
)

// Registry holds live sessions for one reducer instantiation, keyed by an
// opaque id. Lookup returns a shared handle; each session independently
// locks itself to serialize its own dispatch.
type Registry[Pub reducer.PublicState, Priv any] struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session[Pub, Priv]

	newPublic  func() Pub
	newPrivate func() *Priv
	reduce     reducer.Func[Pub, Priv]
}

// New builds an empty registry that will construct sessions around reduce.
func New[Pub reducer.PublicState, Priv any](
	reduce reducer.Func[Pub, Priv],
	newPublic func() Pub,
	newPrivate func() *Priv,
) *Registry[Pub, Priv] {
	return &Registry[Pub, Priv]{
		sessions:   make(map[string]*session.Session[Pub, Priv]),
		newPublic:  newPublic,
		newPrivate: newPrivate,
		reduce:     reduce,
	}
}

// Create builds a fresh session, stores it under a freshly generated id,
// and returns both.
func (r *Registry[Pub, Priv]) Create() (string, *session.Session[Pub, Priv], error) {
	s, err := session.New(r.reduce, r.newPublic, r.newPrivate)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	return id, s, nil
}

// Get looks up a session by id, returning SessionNotFound if absent.
func (r *Registry[Pub, Priv]) Get(id string) (*session.Session[Pub, Priv], error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.KindSessionNotFound, "no session with id %q", id)
	}
	return s, nil
}

// Evict removes a session from the registry. Eviction policy is the
// caller's decision; this merely performs the removal once asked.
func (r *Registry[Pub, Priv]) Evict(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry[Pub, Priv]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
