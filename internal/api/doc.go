// Package api implements the HTTP REST API for the movie catalog and user
// accounts.
//
// This package provides:
//   - Catalog endpoints: movies, genres and directors (read-only)
//   - Account endpoints: registration, login, profile, favorites, deletion
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - Health and metrics endpoints
//   - TLS support for production deployments
//
// # Security
//
// POST /login checks a username and password and returns a signed bearer
// token. Protected routes verify the token and load its subject from the
// store on every request. Routes under /users/{username} also require the
// caller to be that user. Credential failures all return the same 401 body.
//
// # Errors
//
// Handlers return (status, body, error). Errors are mapped to responses in
// one place, classify, and 5xx details are logged rather than returned.
package api
