package domain

import "time"

// AuthEventType names an auth audit event.
type AuthEventType string

const (
	EventSignup  AuthEventType = "signup"
	EventSignin  AuthEventType = "signin"
	EventSignout AuthEventType = "signout"
)

// Audit outcomes recorded alongside an AuthEvent.
const (
	OutcomeSuccess            = "success"
	OutcomeAccountExists      = "account_exists"
	OutcomeAccountNotFound    = "account_not_found"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeNoSession          = "no_session"
	OutcomeError              = "error"
)

// AuthEvent is an audit record for a single signup, signin or signout.
type AuthEvent struct {
	Type      AuthEventType
	Outcome   string
	AccountID string
	Email     string
	RequestID string
	RemoteIP  string
	Timestamp time.Time
}
