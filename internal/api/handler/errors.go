package handler

import (
	"errors"
	"net/http"

	"github.com/bahath/jobz-web/internal/core/domain"
)

// DomainStatus maps session errors to an HTTP status and a client-safe
// message. ok is false for errors it does not know.
func DomainStatus(err error) (status int, msg string, ok bool) {
	var rejected *domain.RejectedError
	switch {
	case errors.As(err, &rejected):
		status = rejected.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, rejected.Error(), true
	case errors.Is(err, domain.ErrUnreachable):
		return http.StatusBadGateway, domain.UserMessage(err, ""), true
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, "unexpected response from auth service", true
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrInvalidRegistration):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, err.Error(), true
	}
	return 0, "", false
}
