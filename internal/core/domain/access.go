package domain

// Decision is the outcome of evaluating a guarded route.
type Decision int

const (
	Pending Decision = iota
	DeniedUnauthenticated
	DeniedRole
	Granted
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case DeniedUnauthenticated:
		return "denied_unauthenticated"
	case DeniedRole:
		return "denied_role"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Authorize decides whether state may access a route restricted to allowed.
// An empty allow-list only requires an authenticated session. Roles outside
// the closed set never match.
func Authorize(state SessionState, allowed []Role) Decision {
	if state.Loading {
		return Pending
	}
	if !state.Authenticated() {
		return DeniedUnauthenticated
	}
	if len(allowed) == 0 {
		return Granted
	}
	for _, r := range allowed {
		if state.User.Role.Is(r) {
			return Granted
		}
	}
	return DeniedRole
}
