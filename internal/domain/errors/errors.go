package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrMissingCredentials: no Basic auth header, or an empty username or
	// password inside it. Distinct from a mismatch for diagnostics only;
	// both surface as 401.
	ErrMissingCredentials = errors.New("no authentication data provided")
	ErrInvalidCredentials = errors.New("invalid authentication data")

	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserExists           = errors.New("username already taken")

	// Validation failures on message/conversation input (400).
	ErrSelfConversation = errors.New("cannot open a conversation with yourself")
	ErrEmptyMessage     = errors.New("message text must not be empty")
	ErrSelfMessage      = errors.New("sender and receiver must differ")
	ErrNotParticipant   = errors.New("sender and receiver must belong to the conversation")
)
