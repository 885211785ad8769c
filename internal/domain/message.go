package domain

import (
	"strconv"
	"time"
)

// MessageID is a value object for message identity. IDs are assigned from a
// single database sequence, so they are strictly increasing within a
// conversation and double as the ordering key.
type MessageID int64

// NewMessageID creates a MessageID from a raw database identifier.
func NewMessageID(id int64) MessageID { return MessageID(id) }

// Int64 returns the raw identifier.
func (m MessageID) Int64() int64 { return int64(m) }

// String returns the canonical string form.
func (m MessageID) String() string { return strconv.FormatInt(int64(m), 10) }

// Message is one immutable entry in a conversation's append-only history.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	SenderID       UserID
	ReceiverID     UserID
	Text           string
	CreatedAt      time.Time
}
