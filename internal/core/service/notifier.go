package service

import (
	"sync"

	"github.com/bahath/jobz-web/internal/core/domain"
)

const maxFlash = 20

// FlashQueue buffers notifications for one browser until the next page or
// session poll drains them. The oldest entries are dropped past maxFlash.
type FlashQueue struct {
	mu    sync.Mutex
	items []domain.Notification
}

// Notify satisfies ports.Notifier.
func (q *FlashQueue) Notify(n domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if len(q.items) > maxFlash {
		q.items = q.items[len(q.items)-maxFlash:]
	}
}

// Drain returns and clears the pending notifications. It never returns nil
// so JSON encodes an empty list.
func (q *FlashQueue) Drain() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}
