package domain

import "time"

// Audit actions recorded by the write-behind audit trail.
const (
	AuditLogin          = "login"
	AuditMessagePosted  = "message_posted"
	AuditUserRegistered = "user_registered"
	AuditUserDeleted    = "user_deleted"
)

// AuditEntry records a single state-changing operation for later inspection.
type AuditEntry struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
