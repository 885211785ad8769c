package postgres

import (
	"context"
	"fmt"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
)

const (
	appendMessageSQL = `INSERT INTO messages (conversation_id, sender_id, receiver_id, message_text)
	 VALUES ($1, $2, $3, $4)
	 RETURNING message_id, created_at`

	listMessagesSQL = `SELECT message_id, conversation_id, sender_id, receiver_id, message_text, created_at
	 FROM messages
	 WHERE conversation_id = $1 AND ($2::bigint = 0 OR message_id < $2)
	 ORDER BY message_id`

	// Paged variant: the newest limit-sized window below the cursor,
	// re-sorted ascending so callers always see append order.
	listMessagesPagedSQL = `SELECT message_id, conversation_id, sender_id, receiver_id, message_text, created_at
	 FROM (
	     SELECT message_id, conversation_id, sender_id, receiver_id, message_text, created_at
	     FROM messages
	     WHERE conversation_id = $1 AND ($2::bigint = 0 OR message_id < $2)
	     ORDER BY message_id DESC
	     LIMIT $3
	 ) page
	 ORDER BY message_id`
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	var id int64
	err := r.db.QueryRow(ctx, appendMessageSQL,
		msg.ConversationID.Int64(), msg.SenderID.Int64(), msg.ReceiverID.Int64(), msg.Text,
	).Scan(&id, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	msg.ID = domain.NewMessageID(id)
	return nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, id domain.ConversationID, limit int, before domain.MessageID) ([]*domain.Message, error) {
	sql := listMessagesSQL
	args := []any{id.Int64(), before.Int64()}
	if limit > 0 {
		sql = listMessagesPagedSQL
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		var m domain.Message
		var msgID, convoID, senderID, receiverID int64
		if err := rows.Scan(&msgID, &convoID, &senderID, &receiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = domain.NewMessageID(msgID)
		m.ConversationID = domain.NewConversationID(convoID)
		m.SenderID = domain.NewUserID(senderID)
		m.ReceiverID = domain.NewUserID(receiverID)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Ensure MessageRepository implements ports.MessageRepository.
var _ ports.MessageRepository = (*MessageRepository)(nil)
