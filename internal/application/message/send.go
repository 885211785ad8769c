package message

import (
	"context"
	"strings"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

type SendInput struct {
	ConversationID domain.ConversationID
	SenderID       domain.UserID
	ReceiverID     domain.UserID
	Text           string
}

type SendResult struct {
	Message *domain.Message
}

// Send appends one message to a conversation's ledger. Messages are
// immutable once appended; there is no edit or delete.
type Send struct {
	messages      ports.MessageRepository
	conversations ports.ConversationRepository
}

func NewSend(messages ports.MessageRepository, conversations ports.ConversationRepository) *Send {
	return &Send{messages: messages, conversations: conversations}
}

func (uc *Send) Execute(ctx context.Context, input SendInput) (*SendResult, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domerrors.ErrEmptyMessage
	}
	if input.SenderID == input.ReceiverID {
		return nil, domerrors.ErrSelfMessage
	}
	convo, err := uc.conversations.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if convo == nil {
		return nil, domerrors.ErrConversationNotFound
	}
	if !convo.HasMember(input.SenderID) || !convo.HasMember(input.ReceiverID) {
		return nil, domerrors.ErrNotParticipant
	}
	msg := &domain.Message{
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		ReceiverID:     input.ReceiverID,
		Text:           input.Text,
	}
	if err := uc.messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	return &SendResult{Message: msg}, nil
}
