package directory

import (
	"context"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

type GetProfileResult struct {
	User          *domain.User
	Conversations []*domain.Conversation
}

// GetProfile returns a user together with every conversation they belong
// to, in either pair position. Backs GET /api/@me.
type GetProfile struct {
	users         ports.UserRepository
	conversations ports.ConversationRepository
}

func NewGetProfile(users ports.UserRepository, conversations ports.ConversationRepository) *GetProfile {
	return &GetProfile{users: users, conversations: conversations}
}

func (uc *GetProfile) Execute(ctx context.Context, id domain.UserID) (*GetProfileResult, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	convos, err := uc.conversations.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if convos == nil {
		convos = []*domain.Conversation{}
	}
	return &GetProfileResult{User: user, Conversations: convos}, nil
}
