package handlers

import (
	"time"

	"github.com/ruxixa/chat-app/internal/domain"
)

// Wire shapes mirror the persisted column names. The credential hash never
// appears in any of them.

// UserProfile is the JSON shape for a user in listings, lookups and @me.
type UserProfile struct {
	UserID           int64  `json:"user_id"`
	Username         string `json:"username"`
	FullName         string `json:"full_name"`
	ProfilePicture   string `json:"profile_picture"`
	RegistrationDate string `json:"registration_date"`
}

// ConversationView is the JSON shape for a conversation record.
type ConversationView struct {
	ConversationID int64  `json:"conversation_id"`
	User1ID        int64  `json:"user1_id"`
	User2ID        int64  `json:"user2_id"`
	CreatedAt      string `json:"created_at"`
}

// MessageView is the JSON shape for one ledger entry.
type MessageView struct {
	MessageID      int64  `json:"message_id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	ReceiverID     int64  `json:"receiver_id"`
	MessageText    string `json:"message_text"`
	CreatedAt      string `json:"created_at"`
}

func toUserProfile(u *domain.User) UserProfile {
	return UserProfile{
		UserID:           u.ID.Int64(),
		Username:         u.Username,
		FullName:         u.FullName,
		ProfilePicture:   u.ProfilePicture,
		RegistrationDate: u.RegistrationDate.Format(time.RFC3339),
	}
}

func toConversationView(c *domain.Conversation) ConversationView {
	return ConversationView{
		ConversationID: c.ID.Int64(),
		User1ID:        c.User1ID.Int64(),
		User2ID:        c.User2ID.Int64(),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageView(m *domain.Message) MessageView {
	return MessageView{
		MessageID:      m.ID.Int64(),
		ConversationID: m.ConversationID.Int64(),
		SenderID:       m.SenderID.Int64(),
		ReceiverID:     m.ReceiverID.Int64(),
		MessageText:    m.Text,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
