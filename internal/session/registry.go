package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps browser session ids to holders. Holders live in memory only and
// are dropped after ttl without a request.
type Registry struct {
	mu      sync.Mutex
	holders map[string]*Holder
	ttl     time.Duration
	onNew   func(id string, h *Holder)
	stop    chan struct{}
	once    sync.Once
}

// NewRegistry starts a background sweep. A ttl of zero disables eviction.
// onNew, if set, runs once for every holder the registry creates.
func NewRegistry(ttl time.Duration, onNew func(id string, h *Holder)) *Registry {
	r := &Registry{
		holders: make(map[string]*Holder),
		ttl:     ttl,
		onNew:   onNew,
		stop:    make(chan struct{}),
	}
	if ttl > 0 {
		go r.cleanup(sweepInterval(ttl))
	}
	return r
}

func NewID() string { return uuid.NewString() }

// Get returns the holder for id, creating it when the id is unknown or expired.
func (r *Registry) Get(id string) *Holder {
	now := time.Now()
	r.mu.Lock()
	h, ok := r.holders[id]
	created := false
	if !ok {
		h = NewHolder()
		r.holders[id] = h
		created = true
	}
	r.mu.Unlock()

	h.touch(now)
	if created && r.onNew != nil {
		r.onNew(id, h)
	}
	return h
}

// Len is the number of live holders.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.holders)
}

// Delete forgets id. A later Get with the same id starts from an empty holder.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.holders, id)
}

// Sweep drops holders idle longer than ttl and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, h := range r.holders {
		if h.idleSince(now) > r.ttl {
			delete(r.holders, id)
			removed++
		}
	}
	return removed
}

// Close stops the background sweep.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *Registry) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				slog.Debug("Expired browser sessions", "count", n)
			}
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}
