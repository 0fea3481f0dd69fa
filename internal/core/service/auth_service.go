package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
	"github.com/chatstack/chat-api/internal/pkg/metrics"
)

// AuthService validates credentials against the user store and issues tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, audit ports.AuditSink, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit, log: log}
}

// Login authenticates username/password and returns a fresh token carrying
// the user's current role. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Enqueue(domain.AuditEntry{
		Action:    domain.AuditLogin,
		Actor:     user.Username,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("login succeeded")

	return token, user, nil
}

var _ ports.AuthService = (*AuthService)(nil)
