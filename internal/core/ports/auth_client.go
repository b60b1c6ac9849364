package ports

import (
	"context"

	"github.com/bahath/jobz-web/internal/core/domain"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegistrationInput is the role-dependent registration payload. Interests
// only apply to job seekers; company fields only to employers.
type RegistrationInput struct {
	Email       string      `json:"email"                 validate:"required"`
	Password    string      `json:"password"              validate:"required"`
	FirstName   string      `json:"firstName"             validate:"required"`
	LastName    string      `json:"lastName"              validate:"required"`
	Role        domain.Role `json:"role"                  validate:"required,jobzrole,ne=super_admin"`
	Phone       string      `json:"phone,omitempty"`
	CompanyName string      `json:"companyName,omitempty" validate:"required_if=Role employer"`
	Interests   []string    `json:"interests,omitempty"`
}

// AuthResult is what login and registration hand back.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthClient is the contract consumed from the external Auth Service.
// Implementations classify failures with domain.ErrUnreachable,
// *domain.RejectedError and domain.ErrMalformedResponse.
type AuthClient interface {
	Me(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, input RegistrationInput) (*AuthResult, error)
}
