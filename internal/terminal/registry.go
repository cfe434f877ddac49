package terminal

import (
	"sync"

	"github.com/google/uuid"

	"github.com/counterline/pos-backend/internal/cart"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
)

// session pairs a cart with the lock that serializes access to it. The
// engine itself has no synchronization; exclusive ownership is enforced here,
// one mutex per terminal session.
type session struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// Registry owns the live carts, one per open terminal session. Carts exist
// only in process memory for the duration of a transaction; nothing is
// persisted.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: map[uuid.UUID]*session{}}
}

// Open creates a session with a fresh empty cart and returns its id.
func (r *Registry) Open() uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	r.sessions[id] = &session{cart: cart.New()}
	r.mu.Unlock()

	return id
}

// Close drops the session entirely. Returns false when the id is unknown.
func (r *Registry) Close(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// With runs fn while holding the session's lock, giving fn exclusive access
// to the cart. Unknown sessions yield NOT_FOUND.
func (r *Registry) With(id uuid.UUID, fn func(c *cart.Cart) error) error {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart session not found")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.cart)
}
