package service

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/core/ports"
)

// RestoreScheduler runs session restorations off the request path. Jobs
// sharing a key run in submission order. Enqueue never blocks and reports
// false when the job was not accepted.
type RestoreScheduler interface {
	Enqueue(key string, job func(ctx context.Context)) bool
}

// BrowserSession bundles the session store of one browser with its
// notification queue.
type BrowserSession struct {
	ID    string
	Store *SessionStore
	Flash *FlashQueue
}

// SessionRegistry keeps the session stores of recently seen browsers in a
// bounded LRU. An evicted store is only dropped from memory: its durable
// storage survives and the next request rebuilds and revalidates it.
type SessionRegistry struct {
	mu        sync.Mutex
	cache     *lru.Cache[string, *BrowserSession]
	client    ports.AuthClient
	storage   ports.StorageFactory
	scheduler RestoreScheduler
	log       zerolog.Logger
	onResize  func(n int)
}

// NewSessionRegistry returns a registry holding at most size sessions.
// onResize, when non-nil, is called with the new cache length after every
// insert, evictions included.
func NewSessionRegistry(
	size int,
	client ports.AuthClient,
	storage ports.StorageFactory,
	scheduler RestoreScheduler,
	log zerolog.Logger,
	onResize func(n int),
) (*SessionRegistry, error) {
	r := &SessionRegistry{
		client:    client,
		storage:   storage,
		scheduler: scheduler,
		log:       log,
		onResize:  onResize,
	}
	cache, err := lru.NewWithEvict(size, func(id string, _ *BrowserSession) {
		r.log.Debug().Str("browser_id", id).Msg("session evicted from cache")
	})
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Acquire returns the session of browserID, creating it and scheduling its
// restoration on first sight. It performs no I/O itself.
func (r *SessionRegistry) Acquire(browserID string) *BrowserSession {
	r.mu.Lock()
	if bs, ok := r.cache.Get(browserID); ok {
		r.mu.Unlock()
		return bs
	}

	flash := &FlashQueue{}
	bs := &BrowserSession{
		ID:    browserID,
		Store: NewSessionStore(r.client, r.storage(browserID), flash, r.log.With().Str("browser_id", browserID).Logger()),
		Flash: flash,
	}
	r.cache.Add(browserID, bs)
	n := r.cache.Len()
	r.mu.Unlock()

	if r.onResize != nil {
		r.onResize(n)
	}
	if !r.scheduler.Enqueue(browserID, bs.Store.RestoreSession) {
		r.log.Warn().Str("browser_id", browserID).Msg("restore queue unavailable, serving session logged out")
		r.drop(browserID, bs)
		bs.Store.Abandon()
	}
	return bs
}

// drop removes bs from the cache so the next request retries restoration.
func (r *SessionRegistry) drop(browserID string, bs *BrowserSession) {
	r.mu.Lock()
	if cur, ok := r.cache.Peek(browserID); ok && cur == bs {
		r.cache.Remove(browserID)
	}
	n := r.cache.Len()
	r.mu.Unlock()

	if r.onResize != nil {
		r.onResize(n)
	}
}

// Len returns the number of cached sessions.
func (r *SessionRegistry) Len() int {
	return r.cache.Len()
}
