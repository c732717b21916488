package assessment

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"teaminsight/internal/models"
)

// DefaultMaxSessions bounds the registry when no size is configured.
const DefaultMaxSessions = 10000

type entry struct {
	session  *Session
	lastSeen atomic.Int64
}

func (e *entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

// Registry keeps in-progress sessions by browser key. The least recently
// used session is dropped once the registry is full.
type Registry struct {
	cache *lru.Cache[string, *entry]
	bank  *models.QuestionBank
	opts  func() Options
	now   func() time.Time
}

// NewRegistry builds a registry. opts is consulted whenever a session is
// created so reloaded settings apply to new sessions.
func NewRegistry(size int, bank *models.QuestionBank, opts func() Options) (*Registry, error) {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if opts == nil {
		opts = func() Options { return Options{} }
	}
	cache, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache, bank: bank, opts: opts, now: time.Now}, nil
}

// Get returns the session for key, creating a fresh one if needed.
func (r *Registry) Get(key string) *Session {
	if e, ok := r.cache.Get(key); ok {
		e.touch(r.now())
		return e.session
	}
	fresh := &entry{session: NewSession(r.bank, r.opts())}
	fresh.touch(r.now())
	if prev, found, _ := r.cache.PeekOrAdd(key, fresh); found {
		prev.touch(r.now())
		return prev.session
	}
	return fresh.session
}

// Remove forgets the session for key, if any.
func (r *Registry) Remove(key string) {
	r.cache.Remove(key)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were dropped. Sessions with a pending save are kept.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl).UnixNano()
	removed := 0
	for _, key := range r.cache.Keys() {
		e, ok := r.cache.Peek(key)
		if !ok || e.lastSeen.Load() >= cutoff || e.session.Saving() {
			continue
		}
		if r.cache.Remove(key) {
			removed++
		}
	}
	return removed
}
