package auth

// Authorize allows an authenticated identity to act only on its own account.
// owner is the username named by the request path.
func Authorize(identity *User, owner string) error {
	if identity == nil || identity.Username != owner {
		return ErrForbidden
	}
	return nil
}
