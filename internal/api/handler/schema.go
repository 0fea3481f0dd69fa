package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type registerUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes.

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type userStatsResponse struct {
	Username             string     `json:"username"`
	MessageCount         int64      `json:"message_count"`
	FirstMessageAt       *time.Time `json:"first_message_at,omitempty"`
	LastMessageAt        *time.Time `json:"last_message_at,omitempty"`
	AverageContentLength float64    `json:"average_content_length"`
	LastMessageContent   string     `json:"last_message_content"`
}

type auditEntryResponse struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
