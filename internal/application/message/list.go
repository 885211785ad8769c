package message

import (
	"context"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

type ListInput struct {
	ConversationID domain.ConversationID
	// Limit caps the number of returned messages; zero means full history.
	Limit int
	// Before restricts to messages with ID strictly below it; zero means
	// from the newest.
	Before domain.MessageID
}

type ListResult struct {
	Messages []*domain.Message
}

// List returns a conversation's history in append order.
type List struct {
	messages      ports.MessageRepository
	conversations ports.ConversationRepository
}

func NewList(messages ports.MessageRepository, conversations ports.ConversationRepository) *List {
	return &List{messages: messages, conversations: conversations}
}

func (uc *List) Execute(ctx context.Context, input ListInput) (*ListResult, error) {
	convo, err := uc.conversations.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if convo == nil {
		return nil, domerrors.ErrConversationNotFound
	}
	msgs, err := uc.messages.ListByConversation(ctx, input.ConversationID, input.Limit, input.Before)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return &ListResult{Messages: msgs}, nil
}
