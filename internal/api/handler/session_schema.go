package handler

import (
	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
)

// loginRequest is checked by the session store, which also reports empty
// fields to the browser as a notification.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        string   `json:"role"`
	Phone       string   `json:"phone,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

func (r registerRequest) toInput() ports.RegistrationInput {
	return ports.RegistrationInput{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Role:        domain.Role(r.Role),
		Phone:       r.Phone,
		CompanyName: r.CompanyName,
		Interests:   r.Interests,
	}
}

// sessionResponse is the browser-visible view of a session. The bearer
// token never leaves the gateway.
type sessionResponse struct {
	Phase         domain.Phase          `json:"phase"`
	Loading       bool                  `json:"loading"`
	Authenticated bool                  `json:"authenticated"`
	User          *domain.User          `json:"user"`
	Hint          *domain.User          `json:"hint,omitempty"`
	Dashboard     string                `json:"dashboard,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

func newSessionResponse(st domain.SessionState, notes []domain.Notification) sessionResponse {
	resp := sessionResponse{
		Phase:         st.Phase,
		Loading:       st.Loading,
		Authenticated: st.Authenticated(),
		User:          st.User,
		Hint:          st.Hint,
		Notifications: notes,
	}
	if st.User != nil {
		resp.Dashboard = domain.DashboardPath(st.User.Role)
	}
	return resp
}
