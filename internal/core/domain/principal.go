package domain

import "errors"

var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("token malformed")
var ErrTokenSignatureInvalid = errors.New("token signature invalid")

// Principal is the authenticated identity attached to a single request,
// reconstructed from a verified token. The role is trusted from the token
// itself, so role changes only take effect on re-login.
type Principal struct {
	Username string
	Role     string
}
