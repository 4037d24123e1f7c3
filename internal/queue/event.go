// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// AuthEventsQueue is the durable queue that carries authentication events.
const AuthEventsQueue = "auth.events"

// Event types published by the auth flows.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// AuthEvent is published after a successful registration or login.  It
// carries no credentials and no email, only what an audit trail needs.
type AuthEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	OccurredAt string `json:"occurred_at"`
}

// NewAuthEvent stamps an event with the current UTC time.
func NewAuthEvent(typ, userID, username string) AuthEvent {
	return AuthEvent{
		Type:       typ,
		UserID:     userID,
		Username:   username,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
