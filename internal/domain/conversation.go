package domain

import (
	"strconv"
	"time"
)

// ConversationID is a value object for conversation identity.
type ConversationID int64

// NewConversationID creates a ConversationID from a raw database identifier.
func NewConversationID(id int64) ConversationID { return ConversationID(id) }

// Int64 returns the raw identifier.
func (c ConversationID) Int64() int64 { return int64(c) }

// String returns the canonical string form.
func (c ConversationID) String() string { return strconv.FormatInt(int64(c), 10) }

// Conversation is the single record for an unordered pair of distinct users.
// User1ID/User2ID keep the orientation of the creating request; equality of
// the pair is orientation-insensitive.
type Conversation struct {
	ID        ConversationID
	User1ID   UserID
	User2ID   UserID
	CreatedAt time.Time
}

// HasMember reports whether id is one of the two participants.
func (c *Conversation) HasMember(id UserID) bool {
	return c.User1ID == id || c.User2ID == id
}
