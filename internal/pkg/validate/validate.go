// Package validate builds the go-playground validator used for inbound
// requests and for Auth Service response schemas.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bahath/jobz-web/internal/core/domain"
)

// New returns a validator with the project's custom tags registered:
//
//	jobzrole: string field holding a known role, compared case-insensitively.
//
// It panics if a tag cannot be registered.
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("jobzrole", validRole); err != nil {
		panic(fmt.Sprintf("validate: register jobzrole: %v", err))
	}
	return v
}

func validRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).Valid()
}

// Message flattens validation errors into one human-readable line. Other
// errors are returned unchanged.
func Message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "jobzrole":
		return field + " must be one of: super_admin employer job_seeker"
	case "ne":
		return fmt.Sprintf("%s must not be %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
