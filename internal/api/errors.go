package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nerrad567/movie-api/internal/auth"
	"github.com/nerrad567/movie-api/internal/catalog"
)

// Error represents a structured error response.
type Error struct {
	Status  int              `json:"status"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Errors  []auth.Violation `json:"errors,omitempty"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorised"
	ErrCodeForbidden      = "forbidden"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// Client-facing messages that must not vary with the underlying cause.
const (
	msgUnauthorized     = "unauthorized"
	msgPermissionDenied = "Permission denied"
	msgInternal         = "internal server error"
)

// badRequestError marks a malformed request, such as unparsable JSON.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &badRequestError{msg: msg}
}

// errEmptyBody is returned by decodeJSON when the request has no body.
var errEmptyBody = &badRequestError{msg: "request body is required"}

// classify maps a handler error onto the response the client sees. It is the
// only place that translates domain errors into HTTP.
func classify(err error) Error {
	var violations auth.Violations
	var bad *badRequestError

	switch {
	case errors.As(err, &violations):
		return Error{
			Status:  http.StatusUnprocessableEntity,
			Code:    ErrCodeValidation,
			Message: "validation failed",
			Errors:  violations,
		}
	case errors.As(err, &bad):
		return Error{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: bad.msg}
	case errors.Is(err, auth.ErrUsernameExists):
		return Error{Status: http.StatusBadRequest, Code: ErrCodeConflict, Message: "username already exists"}
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, catalog.ErrMovieNotFound),
		errors.Is(err, catalog.ErrGenreNotFound),
		errors.Is(err, catalog.ErrDirectorNotFound):
		return Error{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: notFoundMessage(err)}
	// Every authentication failure gets the same body; the cause is logged.
	case errors.Is(err, auth.ErrTokenMissing),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrUnknownSubject),
		errors.Is(err, auth.ErrInvalidCredentials):
		return Error{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: msgUnauthorized}
	case errors.Is(err, auth.ErrForbidden):
		return Error{Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: msgPermissionDenied}
	default:
		return Error{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: msgInternal}
	}
}

func notFoundMessage(err error) string {
	for _, sentinel := range []error{
		auth.ErrUserNotFound,
		catalog.ErrMovieNotFound,
		catalog.ErrGenreNotFound,
		catalog.ErrDirectorNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "not found"
}

// handlerFunc is a route handler that returns its response instead of
// writing it.
type handlerFunc func(r *http.Request) (status int, body any, err error)

// handle adapts a handlerFunc, writing errors through classify. Server
// errors are logged with the request ID; clients see a generic message.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body, err := h(r)
		if err != nil {
			s.writeHandlerError(w, r, err)
			return
		}
		writeJSON(w, status, body)
	}
}

func (s *Server) writeHandlerError(w http.ResponseWriter, r *http.Request, err error) {
	resp := classify(err)
	if resp.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	}
	writeJSON(w, resp.Status, resp)
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected so
// misspelt or legacy field names surface as errors.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest("request body too large")
		}
		return badRequest("invalid JSON body")
	}
	return nil
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
