package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
	"github.com/chatstack/chat-api/internal/pkg/metrics"
)

// UserService owns provisioning, the delete-with-reassignment transaction,
// and the statistics aggregation.
type UserService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	tx       ports.TxRunner
	cache    ports.StatsCache
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	messages ports.MessageRepository,
	tx ports.TxRunner,
	cache ports.StatsCache,
	audit ports.AuditSink,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, messages: messages, tx: tx, cache: cache, audit: audit, log: log}
}

// Register provisions a user with an explicit password. Role defaults to
// user when empty. Duplicate usernames (exact, case-sensitive) yield
// ErrUserExists, also under concurrent registration via the unique index.
func (s *UserService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.cache.Invalidate(ctx)
	s.audit.Enqueue(domain.AuditEntry{
		Action:    domain.AuditUserRegistered,
		Actor:     created.Username,
		Target:    created.Username,
		Timestamp: created.CreatedAt,
	})
	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("user registered")

	return created, nil
}

// Delete removes the named user after repointing every one of their messages
// to anonymous. Both steps run in one transaction: concurrent readers never
// observe messages owned by a deleted user.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if username == domain.AnonymousUsername {
		return domain.ErrCannotDeleteAnonymous
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	anon, err := s.users.FindByUsername(ctx, domain.AnonymousUsername)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrAnonymousMissing
		}
		return err
	}

	var moved int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.messages.ReassignAuthor(ctx, user.ID, anon.ID)
		if err != nil {
			return fmt.Errorf("reassign messages: %w", err)
		}
		moved = n
		if err := s.users.Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("delete transaction failed")
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	metrics.MessagesReassignedTotal.Add(float64(moved))
	s.cache.Invalidate(ctx)
	s.audit.Enqueue(domain.AuditEntry{
		Action:    domain.AuditUserDeleted,
		Actor:     username,
		Target:    username,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", username).Int64("messages_reassigned", moved).Msg("user deleted")

	return nil
}

// Statistics returns one entry per user ordered ascending by username. The
// aggregation is read-only and served from cache when a fresh copy exists.
func (s *UserService) Statistics(ctx context.Context) ([]domain.UserStats, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.StatsCacheTotal.WithLabelValues("miss").Inc()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.messages.StatsByAuthor(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]domain.UserStats, 0, len(users))
	for _, u := range users {
		entry := domain.UserStats{Username: u.Username}
		if agg, ok := aggregates[u.ID]; ok && agg.Count > 0 {
			first, last := agg.FirstAt, agg.LastAt
			entry.MessageCount = agg.Count
			entry.FirstMessageAt = &first
			entry.LastMessageAt = &last
			entry.AverageContentLength = agg.AvgContentLen
			entry.LastMessageContent = agg.LastContent
		}
		stats = append(stats, entry)
	}

	s.cache.Set(ctx, stats)
	return stats, nil
}

var _ ports.UserService = (*UserService)(nil)
