package ports

import "github.com/bahath/jobz-web/internal/core/domain"

// Notifier receives user-facing notifications emitted by session operations.
type Notifier interface {
	Notify(n domain.Notification)
}
