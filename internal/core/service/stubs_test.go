package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chatstack/chat-api/internal/core/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// In-memory doubles shared by the service tests.

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // keyed by username
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	r.seq++
	copy.ID = fmt.Sprintf("u%03d", r.seq)
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for username, u := range r.users {
		if u.ID == id {
			delete(r.users, username)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubMessageRepo struct {
	mu   sync.Mutex
	seq  int
	msgs []*domain.Message

	failReassign bool
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{}
}

func (r *stubMessageRepo) Insert(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *msg
	r.seq++
	copy.ID = fmt.Sprintf("m%04d", r.seq)
	r.msgs = append(r.msgs, &copy)
	saved := copy
	return &saved, nil
}

func (r *stubMessageRepo) ListAll(_ context.Context) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// newest insertion first, then stable sort by timestamp descending so
	// timestamp ties preserve insertion order (newest first).
	out := make([]*domain.Message, 0, len(r.msgs))
	for i := len(r.msgs) - 1; i >= 0; i-- {
		copy := *r.msgs[i]
		out = append(out, &copy)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *stubMessageRepo) ReassignAuthor(_ context.Context, fromID, toID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReassign {
		return 0, fmt.Errorf("reassign failed")
	}
	var n int64
	for _, m := range r.msgs {
		if m.AuthorID == fromID {
			m.AuthorID = toID
			n++
		}
	}
	return n, nil
}

func (r *stubMessageRepo) StatsByAuthor(_ context.Context) (map[string]domain.MessageAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make(map[string]domain.MessageAggregate)
	for _, m := range r.msgs {
		agg := stats[m.AuthorID]
		if agg.Count == 0 || m.Timestamp.Before(agg.FirstAt) {
			agg.FirstAt = m.Timestamp
		}
		if agg.Count == 0 || !m.Timestamp.Before(agg.LastAt) {
			agg.LastAt = m.Timestamp
			agg.LastContent = m.Content
		}
		agg.AvgContentLen = (agg.AvgContentLen*float64(agg.Count) + float64(len([]rune(m.Content)))) / float64(agg.Count+1)
		agg.Count++
		stats[m.AuthorID] = agg
	}
	return stats, nil
}

// stubTx snapshots the stub stores before running fn and restores them when
// fn fails, mimicking the all-or-nothing transaction contract.
type stubTx struct {
	users    *stubUserRepo
	messages *stubMessageRepo
}

func (t *stubTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	userSnapshot := make(map[string]*domain.User, len(t.users.users))
	for k, v := range t.users.users {
		userSnapshot[k] = cloneUser(v)
	}
	msgSnapshot := make([]*domain.Message, 0, len(t.messages.msgs))
	for _, m := range t.messages.msgs {
		copy := *m
		msgSnapshot = append(msgSnapshot, &copy)
	}

	if err := fn(ctx); err != nil {
		t.users.users = userSnapshot
		t.messages.msgs = msgSnapshot
		return err
	}
	return nil
}

type stubCache struct {
	mu     sync.Mutex
	stats  []domain.UserStats
	cached bool
}

func (c *stubCache) Get(context.Context) ([]domain.UserStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached {
		return nil, false
	}
	return c.stats, true
}

func (c *stubCache) Set(_ context.Context, stats []domain.UserStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.cached = true
}

func (c *stubCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.cached = false
}

type stubSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *stubSink) Enqueue(entry domain.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *stubSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}
