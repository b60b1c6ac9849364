package authapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bahath/jobz-web/internal/core/domain"
)

type authResponse struct {
	Token string       `json:"token" validate:"required"`
	User  *userPayload `json:"user"  validate:"required"`
}

type userPayload struct {
	ID                flexibleID `json:"id"                 validate:"required"`
	Email             string     `json:"email"              validate:"required"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Role              string     `json:"role"               validate:"required,jobzrole"`
	IsActive          *bool      `json:"isActive"`
	Interests         []string   `json:"interests"`
	InterestsSelected bool       `json:"interests_selected"`
}

func (p *userPayload) toDomain() *domain.User {
	role, _ := domain.ParseRole(p.Role)
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return &domain.User{
		ID:                string(p.ID),
		Email:             p.Email,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Role:              role,
		IsActive:          active,
		Interests:         p.Interests,
		InterestsSelected: p.InterestsSelected,
	}
}

// flexibleID accepts both JSON strings and numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}
