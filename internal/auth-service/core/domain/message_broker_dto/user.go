package messagebrokerdto

import "time"

const (
	UserRegistered = "user.registered"
	UserBlocked    = "user.blocked"
	UserUnblocked  = "user.unblocked"
	UserDeleted    = "user.deleted"
)

// UserEvent describes a committed change to a user account. It never carries credentials.
type UserEvent struct {
	EventId    string    `json:"event_id"`
	Type       string    `json:"type"`
	UserId     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
