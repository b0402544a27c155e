// Package registry tracks in-flight authorization attempts and correlates a
// browser callback back to the client that initiated it. Entries are
// ephemeral: created when authorization starts and consumed when the
// callback completes.
package registry

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned when a state is assigned to a client with no pending session.
var ErrSessionNotFound = errors.New("session not found")

// Session holds the data required to complete a pending authorization.
type Session struct {
	ClientID     string
	ClientSecret string
	State        string
}

// Registry is a concurrency-safe map of pending sessions plus a reverse
// state index used by the callback handler. All operations run under a
// single registry-wide lock.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session // client id -> pending session
	states   map[string]string   // state -> client id
}

// New makes an empty registry.
func New() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		states:   map[string]string{},
	}
}

// Register creates or replaces the pending session for clientID. Any state
// previously assigned to the same client is invalidated so a callback from
// an abandoned attempt can't complete against the new secret.
func (r *Registry) Register(clientID, clientSecret string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[clientID] = &Session{ClientID: clientID, ClientSecret: clientSecret}
	for state, owner := range r.states {
		if owner == clientID {
			delete(r.states, state)
		}
	}
}

// Lookup returns a copy of the pending session for clientID.
func (r *Registry) Lookup(clientID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[clientID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// AssignState attaches a freshly generated state to the pending session for clientID.
func (r *Registry) AssignState(clientID, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[clientID]
	if !ok {
		return ErrSessionNotFound
	}
	session.State = state
	r.states[state] = clientID
	return nil
}

// ResolveState consumes state and returns the owning session. A state value
// resolves at most once, later calls report not found.
func (r *Registry) ResolveState(state string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clientID, ok := r.states[state]
	if !ok {
		return Session{}, false
	}
	delete(r.states, state)
	session, ok := r.sessions[clientID]
	if !ok || session.State != state {
		return Session{}, false
	}
	return *session, true
}

// Evict removes the pending session for clientID once the flow completed.
func (r *Registry) Evict(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, clientID)
}
