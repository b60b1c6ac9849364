package domain

// User is the authenticated principal as returned by the Auth Service.
// JSON names follow the Auth Service contract, which mixes camelCase and
// snake_case.
type User struct {
	ID                string   `json:"id"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName,omitempty"`
	LastName          string   `json:"lastName,omitempty"`
	Role              Role     `json:"role"`
	IsActive          bool     `json:"isActive"`
	Interests         []string `json:"interests"`
	InterestsSelected bool     `json:"interests_selected"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Clone returns a deep copy so callers cannot mutate a stored snapshot.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Interests != nil {
		c.Interests = append([]string(nil), u.Interests...)
	}
	return &c
}

// NeedsInterests reports whether the user still has to complete the
// mandatory interest-selection step. Only job seekers have one.
func (u *User) NeedsInterests() bool {
	return u != nil && u.Role.Is(RoleJobSeeker) && !u.InterestsSelected
}
