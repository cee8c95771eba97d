// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into audit log lines.
package queue

// UserRegisteredEvent is published after a successful signup.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.  No password material ever crosses the
// broker.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}
