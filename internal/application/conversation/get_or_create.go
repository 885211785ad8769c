package conversation

import (
	"context"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

type GetOrCreateInput struct {
	User1ID domain.UserID
	User2ID domain.UserID
}

type GetOrCreateResult struct {
	Conversation *domain.Conversation
}

// GetOrCreate resolves the single conversation for an unordered user pair,
// creating it on first contact. Repeated calls with the pair in either
// orientation converge on the same conversation.
type GetOrCreate struct {
	conversations ports.ConversationRepository
	users         ports.UserRepository
}

func NewGetOrCreate(conversations ports.ConversationRepository, users ports.UserRepository) *GetOrCreate {
	return &GetOrCreate{conversations: conversations, users: users}
}

func (uc *GetOrCreate) Execute(ctx context.Context, input GetOrCreateInput) (*GetOrCreateResult, error) {
	if input.User1ID == input.User2ID {
		return nil, domerrors.ErrSelfConversation
	}
	for _, id := range []domain.UserID{input.User1ID, input.User2ID} {
		user, err := uc.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domerrors.ErrUserNotFound
		}
	}
	convo, err := uc.conversations.GetOrCreate(ctx, input.User1ID, input.User2ID)
	if err != nil {
		return nil, err
	}
	return &GetOrCreateResult{Conversation: convo}, nil
}
