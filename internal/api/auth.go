package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nerrad567/movie-api/internal/audit"
	"github.com/nerrad567/movie-api/internal/auth"
)

// loginRequest is the request body for POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /login.
type loginResponse struct {
	User      *auth.User `json:"user"`
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// handleLogin authenticates a username and password and issues a bearer
// token. Credentials come from the JSON body; query parameters fill in
// whatever the body leaves out.
//
// Every credential failure gets the same 401 body, so clients cannot tell an
// unknown username from a wrong password. The log records which it was.
func (s *Server) handleLogin(r *http.Request) (int, any, error) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return 0, nil, err
	}

	query := r.URL.Query()
	if req.Username == "" {
		req.Username = query.Get("username")
	}
	if req.Password == "" {
		req.Password = query.Get("password")
	}

	var missing auth.Violations
	if req.Username == "" {
		missing = append(missing, auth.Violation{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		missing = append(missing, auth.Violation{Field: "password", Message: "password is required"})
	}
	if len(missing) > 0 {
		return 0, nil, missing
	}

	ctx := r.Context()
	user, err := s.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Info("login rejected",
				"username", req.Username,
				"reason", err.Error(),
				"request_id", ctx.Value(ctxKeyRequestID),
			)
			s.record(ctx, audit.Event{
				Entity:   audit.EntitySession,
				Action:   audit.ActionLogin,
				Outcome:  audit.OutcomeFailure,
				Username: req.Username,
			})
		}
		return 0, nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return 0, nil, err
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "username", user.Username)
	s.record(ctx, audit.Event{
		Entity:   audit.EntitySession,
		Action:   audit.ActionLogin,
		Outcome:  audit.OutcomeSuccess,
		UserID:   user.ID,
		Username: user.Username,
	})

	return http.StatusOK, loginResponse{
		User:      user,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
	}, nil
}
