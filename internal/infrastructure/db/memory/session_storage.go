// Package memory provides a process-local session storage, used in
// development and tests. Everything is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/bahath/jobz-web/internal/core/ports"
)

// Storage holds the namespaces of every browser.
type Storage struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{items: make(map[string]map[string]string)}
}

// Factory returns a ports.StorageFactory scoped to this Storage.
func (s *Storage) Factory() ports.StorageFactory {
	return func(browserID string) ports.SessionStorage {
		return &Namespace{root: s, id: browserID}
	}
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }

// Namespace is the storage of one browser.
type Namespace struct {
	root *Storage
	id   string
}

func (n *Namespace) GetItem(_ context.Context, key string) (string, error) {
	n.root.mu.RLock()
	defer n.root.mu.RUnlock()
	v, ok := n.root.items[n.id][key]
	if !ok {
		return "", ports.ErrStorageKeyNotFound
	}
	return v, nil
}

func (n *Namespace) SetItem(_ context.Context, key, value string) error {
	n.root.mu.Lock()
	defer n.root.mu.Unlock()
	ns, ok := n.root.items[n.id]
	if !ok {
		ns = make(map[string]string)
		n.root.items[n.id] = ns
	}
	ns[key] = value
	return nil
}

func (n *Namespace) RemoveItem(_ context.Context, key string) error {
	n.root.mu.Lock()
	defer n.root.mu.Unlock()
	ns, ok := n.root.items[n.id]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(n.root.items, n.id)
	}
	return nil
}
