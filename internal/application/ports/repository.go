package ports

import (
	"context"

	"github.com/ruxixa/chat-app/internal/domain"
)

// UserRepository defines persistence for users. Lookups return (nil, nil)
// when no row matches; errors are reserved for storage failures.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// ConversationRepository defines persistence for the canonical record of an
// unordered user pair.
type ConversationRepository interface {
	// GetOrCreate atomically resolves the conversation for {a, b} in either
	// orientation, inserting it on first contact. Concurrent calls for the
	// same pair converge on one row; the storage layer enforces pair
	// uniqueness, not the caller.
	GetOrCreate(ctx context.Context, a, b domain.UserID) (*domain.Conversation, error)
	GetByID(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error)
}

// MessageRepository defines persistence for the append-only message ledger.
type MessageRepository interface {
	// Append stores the message and fills in its assigned ID and timestamp.
	Append(ctx context.Context, msg *domain.Message) error
	// ListByConversation returns messages in ascending ID order. A zero
	// limit returns the full history; a non-zero before restricts to
	// messages with ID below it (pagination cursor).
	ListByConversation(ctx context.Context, id domain.ConversationID, limit int, before domain.MessageID) ([]*domain.Message, error)
}
