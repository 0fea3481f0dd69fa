package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
)

// Config carries the bootstrap credentials for the initial admin account.
// The password comes from the environment; it is never hard-coded.
type Config struct {
	AdminUsername string
	AdminPassword string
}

// Run idempotently seeds the anonymous user and the initial admin. The
// anonymous account is created without a usable password hash, so it can
// never log in; it exists solely to own orphaned messages.
func Run(ctx context.Context, users ports.UserRepository, cfg Config, log zerolog.Logger) error {
	if err := ensureAnonymous(ctx, users, log); err != nil {
		return err
	}
	return ensureAdmin(ctx, users, cfg, log)
}

func ensureAnonymous(ctx context.Context, users ports.UserRepository, log zerolog.Logger) error {
	_, err := users.FindByUsername(ctx, domain.AnonymousUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("lookup anonymous user: %w", err)
	}

	_, err = users.Create(ctx, &domain.User{
		Username:  domain.AnonymousUsername,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// Another instance won the race; the invariant holds either way.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed anonymous user: %w", err)
	}

	log.Info().Msg("anonymous user created")
	return nil
}

func ensureAdmin(ctx context.Context, users ports.UserRepository, cfg Config, log zerolog.Logger) error {
	if cfg.AdminUsername == "" {
		return errors.New("bootstrap admin username is required")
	}

	_, err := users.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("lookup admin user: %w", err)
	}

	if cfg.AdminPassword == "" {
		return errors.New("bootstrap admin password is required to create the initial admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = users.Create(ctx, &domain.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Info().Str("username", cfg.AdminUsername).Msg("initial admin user created")
	return nil
}
