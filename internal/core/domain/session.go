package domain

// Phase is the lifecycle state of a session store.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseRestoring   Phase = "restoring"
	PhaseLoggingIn   Phase = "logging_in"
	PhaseRegistering Phase = "registering"
	PhaseRefreshing  Phase = "refreshing"
	PhaseSettled     Phase = "settled"
)

// SessionState is an immutable snapshot of a session store.
//
// Token and User are either both set or both empty. Hint carries the last
// persisted user snapshot while the initial restoration is pending; it is
// never used for authorization.
type SessionState struct {
	Phase   Phase
	Loading bool
	Token   string
	User    *User
	Hint    *User
}

// Authenticated reports whether the state holds a validated user.
func (s SessionState) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// NotificationLevel mirrors the toast levels of the web client.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a user-facing message emitted by session operations.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
