// Package queue defines the auth events exchanged over the message broker,
// together with their RabbitMQ publisher and consumer.
package queue

// Event types published by the session manager.
const (
	EventSignedUp      = "user.signed_up"
	EventLoggedIn      = "user.logged_in"
	EventExternalLogin = "user.external_login"
)

// AuthEvent is published after a session has been issued. It carries
// identifiers only, enough for downstream consumers to audit or notify
// without querying the primary database.
type AuthEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	Provider   string `json:"provider"`
	OccurredAt string `json:"occurred_at"`
}
