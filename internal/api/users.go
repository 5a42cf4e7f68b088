package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/movie-api/internal/audit"
	"github.com/nerrad567/movie-api/internal/auth"
)

// ─── Request/Response Types ────────────────────────────────────────

type listUsersResponse struct {
	Users []auth.User `json:"users"`
	Count int         `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ─── Handlers ──────────────────────────────────────────────────────

// handleRegister creates an account. Every validation failure is reported
// at once; a taken username is a 400.
func (s *Server) handleRegister(r *http.Request) (int, any, error) {
	var req auth.Registration
	if err := decodeJSON(r, &req); err != nil {
		return 0, nil, err
	}
	if err := req.Validate(); err != nil {
		return 0, nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, nil, err
	}

	user := &auth.User{
		Username:     req.Username,
		Email:        req.Email,
		Birthday:     req.Birthday,
		PasswordHash: hash,
	}

	ctx := r.Context()
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			s.record(ctx, audit.Event{
				Entity:   audit.EntityUser,
				Action:   audit.ActionRegistered,
				Outcome:  audit.OutcomeFailure,
				Username: req.Username,
			})
		}
		return 0, nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.record(ctx, audit.Event{
		Entity:   audit.EntityUser,
		Action:   audit.ActionRegistered,
		Outcome:  audit.OutcomeSuccess,
		UserID:   user.ID,
		Username: user.Username,
	})

	return http.StatusCreated, user, nil
}

// handleListUsers returns all accounts.
func (s *Server) handleListUsers(r *http.Request) (int, any, error) {
	users, err := s.users.List(r.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, listUsersResponse{Users: users, Count: len(users)}, nil
}

// handleGetUser returns the caller's own account.
func (s *Server) handleGetUser(r *http.Request) (int, any, error) {
	identity, err := s.owner(r)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, identity, nil
}

// handleUpdateUser applies a partial profile update to the caller's account.
// Fields absent from the body are left as they are.
func (s *Server) handleUpdateUser(r *http.Request) (int, any, error) {
	identity, err := s.owner(r)
	if err != nil {
		return 0, nil, err
	}

	var req auth.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		return 0, nil, err
	}
	if err := req.Validate(); err != nil {
		return 0, nil, err
	}
	if req.Empty() {
		return http.StatusOK, identity, nil
	}

	updated := *identity
	if req.Username != nil {
		updated.Username = *req.Username
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Birthday != nil {
		updated.Birthday = *req.Birthday
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return 0, nil, err
		}
		updated.PasswordHash = hash
	}

	ctx := r.Context()
	if err := s.users.Update(ctx, &updated); err != nil {
		return 0, nil, err
	}

	s.logger.Info("user updated",
		"user_id", updated.ID,
		"username", updated.Username,
		"password_changed", req.Password != nil,
	)
	s.record(ctx, audit.Event{
		Entity:   audit.EntityUser,
		Action:   audit.ActionUpdated,
		Outcome:  audit.OutcomeSuccess,
		UserID:   updated.ID,
		Username: updated.Username,
	})

	return http.StatusOK, &updated, nil
}

// handleDeleteUser removes the caller's account. Tokens issued to it stop
// working on the next request.
func (s *Server) handleDeleteUser(r *http.Request) (int, any, error) {
	identity, err := s.owner(r)
	if err != nil {
		return 0, nil, err
	}

	ctx := r.Context()
	if err := s.users.Delete(ctx, identity.ID); err != nil {
		return 0, nil, err
	}

	s.logger.Info("user deleted", "user_id", identity.ID, "username", identity.Username)
	s.record(ctx, audit.Event{
		Entity:   audit.EntityUser,
		Action:   audit.ActionDeleted,
		Outcome:  audit.OutcomeSuccess,
		UserID:   identity.ID,
		Username: identity.Username,
	})

	return http.StatusOK, messageResponse{Message: identity.Username + " was deleted."}, nil
}

// handleAddFavorite adds a catalog movie to the caller's favorites. The movie
// must exist; adding it twice is harmless.
func (s *Server) handleAddFavorite(r *http.Request) (int, any, error) {
	identity, err := s.owner(r)
	if err != nil {
		return 0, nil, err
	}

	ctx := r.Context()
	movieID := chi.URLParam(r, "movieID")
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return 0, nil, err
	}

	user, err := s.users.AddFavorite(ctx, identity.ID, movieID)
	if err != nil {
		return 0, nil, err
	}

	s.record(ctx, audit.Event{
		Entity:   audit.EntityFavorite,
		Action:   audit.ActionAdded,
		Outcome:  audit.OutcomeSuccess,
		UserID:   user.ID,
		Username: user.Username,
		MovieID:  movieID,
	})
	return http.StatusOK, user, nil
}

// handleRemoveFavorite removes a movie from the caller's favorites. Removing
// a movie that is not there succeeds.
func (s *Server) handleRemoveFavorite(r *http.Request) (int, any, error) {
	identity, err := s.owner(r)
	if err != nil {
		return 0, nil, err
	}

	ctx := r.Context()
	movieID := chi.URLParam(r, "movieID")
	user, err := s.users.RemoveFavorite(ctx, identity.ID, movieID)
	if err != nil {
		return 0, nil, err
	}

	s.record(ctx, audit.Event{
		Entity:   audit.EntityFavorite,
		Action:   audit.ActionRemoved,
		Outcome:  audit.OutcomeSuccess,
		UserID:   user.ID,
		Username: user.Username,
		MovieID:  movieID,
	})
	return http.StatusOK, user, nil
}

// owner returns the authenticated identity after checking it owns the
// account named in the path.
func (s *Server) owner(r *http.Request) (*auth.User, error) {
	identity := identityFromContext(r.Context())
	username := chi.URLParam(r, "username")

	if err := auth.Authorize(identity, username); err != nil {
		var caller string
		if identity != nil {
			caller = identity.Username
		}
		s.logger.Info("ownership check failed",
			"caller", caller,
			"target", username,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		return nil, err
	}
	return identity, nil
}
