package domain

import (
	"errors"
	"time"
)

var ErrEmptyContent = errors.New("message content must not be empty")

// Message is a single post in the shared channel. AuthorID references a User
// by id; after any completed delete it always resolves to an existing user
// (the original author or anonymous).
type Message struct {
	ID        string
	AuthorID  string
	Content   string
	Timestamp time.Time
}

// MessageView is the read model returned to clients: the author id is
// resolved to the current username at read time.
type MessageView struct {
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageAggregate holds the per-author values computed by the statistics
// pipeline.
type MessageAggregate struct {
	Count         int64
	FirstAt       time.Time
	LastAt        time.Time
	AvgContentLen float64
	LastContent   string
}
