package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
	"github.com/chatstack/chat-api/internal/pkg/metrics"
)

// ChatService implements message posting and listing over the two stores.
type ChatService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	cache    ports.StatsCache
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewChatService(
	users ports.UserRepository,
	messages ports.MessageRepository,
	cache ports.StatsCache,
	audit ports.AuditSink,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{users: users, messages: messages, cache: cache, audit: audit, log: log}
}

// Post persists a message authored by the named user. The timestamp is the
// server wall clock at acceptance, never client-supplied.
func (s *ChatService) Post(ctx context.Context, username, content string) (*domain.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		AuthorID:  user.ID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	saved, err := s.messages.Insert(ctx, msg)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to insert message")
		return nil, err
	}

	metrics.MessagesPostedTotal.Inc()
	s.cache.Invalidate(ctx)
	s.audit.Enqueue(domain.AuditEntry{
		Action:    domain.AuditMessagePosted,
		Actor:     user.Username,
		Timestamp: saved.Timestamp,
	})

	return &domain.MessageView{
		Username:  user.Username,
		Content:   saved.Content,
		Timestamp: saved.Timestamp,
	}, nil
}

// List returns every message newest-first. Author usernames are resolved in
// one bulk pass; a message whose author no longer exists renders as
// anonymous (transient only, the delete transaction repoints messages before
// the author row disappears).
func (s *ChatService) List(ctx context.Context) ([]*domain.MessageView, error) {
	msgs, err := s.messages.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	views := make([]*domain.MessageView, 0, len(msgs))
	for _, m := range msgs {
		username, ok := usernames[m.AuthorID]
		if !ok {
			username = domain.AnonymousUsername
		}
		views = append(views, &domain.MessageView{
			Username:  username,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return views, nil
}

var _ ports.ChatService = (*ChatService)(nil)
