// Package auth authenticates Movie API accounts and guards their resources.
//
// It provides:
//   - bcrypt password hashing (Hasher)
//   - the local credential check: username and password to account (Authenticator)
//   - HS256 bearer tokens whose subject is re-read on every request (TokenService)
//   - the ownership rule: an identity may act only on its own account (Authorize)
//   - request validation that reports every failed rule (Registration, ProfileUpdate)
//   - the credential store, on SQLite or MongoDB (UserRepository)
//
// Handlers call these explicitly, in order: BearerToken, TokenService.Verify,
// Authorize, then the store. Nothing is hidden in middleware.
package auth
