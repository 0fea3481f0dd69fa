package ports

import "github.com/chatstack/chat-api/internal/core/domain"

// TokenService issues and verifies stateless bearer tokens. Verification is
// a pure function of the token and the process-wide signing key; it never
// consults the user store.
type TokenService interface {
	Issue(username, role string) (string, error)
	// Verify returns ErrTokenExpired, ErrTokenMalformed or
	// ErrTokenSignatureInvalid on failure.
	Verify(token string) (*domain.Principal, error)
}
