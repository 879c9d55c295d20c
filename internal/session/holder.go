// Package session holds the per-browser application state: the signed-in user and
// the cart. State changes only through Holder methods, and every change is pushed
// to the holder's subscribers.
package session

import (
	"sync"
	"time"

	"github.com/alextreichler/gizmogrid/internal/models"
)

// Snapshot is a copy of a holder's state at one point in time.
type Snapshot struct {
	User models.User
	Cart []models.CartItem
}

// Observer receives a snapshot after every update.
type Observer func(Snapshot)

type Holder struct {
	mu        sync.RWMutex
	user      models.User
	cart      []models.CartItem
	observers map[int]Observer
	nextObs   int
	lastSeen  time.Time
}

func NewHolder() *Holder {
	return &Holder{
		observers: make(map[int]Observer),
		lastSeen:  time.Now(),
	}
}

func (h *Holder) User() models.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user
}

// Cart returns a copy of the held cart.
func (h *Holder) Cart() []models.CartItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return copyCart(h.cart)
}

func (h *Holder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Snapshot{User: h.user, Cart: copyCart(h.cart)}
}

// SetUser replaces the held user wholesale.
func (h *Holder) SetUser(u models.User) {
	h.mu.Lock()
	h.user = u
	h.mu.Unlock()
	h.notify()
}

// SetCart replaces the held cart wholesale.
func (h *Holder) SetCart(items []models.CartItem) {
	h.mu.Lock()
	h.cart = copyCart(items)
	h.mu.Unlock()
	h.notify()
}

// Subscribe registers fn and returns a func that removes it.
func (h *Holder) Subscribe(fn Observer) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextObs
	h.nextObs++
	h.observers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.observers, id)
	}
}

func (h *Holder) IsLoggedIn() bool { return h.User().LoggedIn() }

func (h *Holder) IsAdmin() bool { return h.User().IsAdmin() }

// notify runs observers outside the lock so they may read the holder.
func (h *Holder) notify() {
	h.mu.RLock()
	snap := Snapshot{User: h.user, Cart: copyCart(h.cart)}
	observers := make([]Observer, 0, len(h.observers))
	for _, fn := range h.observers {
		observers = append(observers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func (h *Holder) touch(now time.Time) {
	h.mu.Lock()
	h.lastSeen = now
	h.mu.Unlock()
}

func (h *Holder) idleSince(now time.Time) time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return now.Sub(h.lastSeen)
}

func copyCart(items []models.CartItem) []models.CartItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
