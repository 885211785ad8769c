package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
)

const (
	// Single-statement get-or-create. The ON CONFLICT arbiter is the unique
	// index over the canonicalized pair, so two concurrent first contacts
	// for the same pair cannot both insert; the loser's SELECT branch picks
	// up the winner's row.
	getOrCreateConversationSQL = `WITH ins AS (
	     INSERT INTO conversations (user1_id, user2_id)
	     VALUES ($1, $2)
	     ON CONFLICT (LEAST(user1_id, user2_id), GREATEST(user1_id, user2_id)) DO NOTHING
	     RETURNING conversation_id, user1_id, user2_id, created_at
	 )
	 SELECT conversation_id, user1_id, user2_id, created_at FROM ins
	 UNION ALL
	 SELECT conversation_id, user1_id, user2_id, created_at FROM conversations
	 WHERE LEAST(user1_id, user2_id) = LEAST($1::bigint, $2::bigint)
	   AND GREATEST(user1_id, user2_id) = GREATEST($1::bigint, $2::bigint)
	 LIMIT 1`

	getConversationByPairSQL = `SELECT conversation_id, user1_id, user2_id, created_at
	 FROM conversations
	 WHERE LEAST(user1_id, user2_id) = LEAST($1::bigint, $2::bigint)
	   AND GREATEST(user1_id, user2_id) = GREATEST($1::bigint, $2::bigint)`

	getConversationByIDSQL = `SELECT conversation_id, user1_id, user2_id, created_at
	 FROM conversations WHERE conversation_id = $1`

	listConversationsByUserSQL = `SELECT conversation_id, user1_id, user2_id, created_at
	 FROM conversations
	 WHERE user1_id = $1 OR user2_id = $1
	 ORDER BY conversation_id`
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, a, b domain.UserID) (*domain.Conversation, error) {
	convo, err := r.scanOne(r.db.QueryRow(ctx, getOrCreateConversationSQL, a.Int64(), b.Int64()))
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}
	if convo != nil {
		return convo, nil
	}
	// Insert lost the race and the winner's row was not yet visible to the
	// statement snapshot. It is committed by now, so a plain re-read finds it.
	convo, err = r.scanOne(r.db.QueryRow(ctx, getConversationByPairSQL, a.Int64(), b.Int64()))
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}
	if convo == nil {
		return nil, fmt.Errorf("get or create conversation: no row after insert")
	}
	return convo, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	convo, err := r.scanOne(r.db.QueryRow(ctx, getConversationByIDSQL, id.Int64()))
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return convo, nil
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	rows, err := r.db.Query(ctx, listConversationsByUserSQL, userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convos []*domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		var id, u1, u2 int64
		if err := rows.Scan(&id, &u1, &u2, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.ID = domain.NewConversationID(id)
		c.User1ID = domain.NewUserID(u1)
		c.User2ID = domain.NewUserID(u2)
		convos = append(convos, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convos, nil
}

func (r *ConversationRepository) scanOne(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	var id, u1, u2 int64
	err := row.Scan(&id, &u1, &u2, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.ID = domain.NewConversationID(id)
	c.User1ID = domain.NewUserID(u1)
	c.User2ID = domain.NewUserID(u2)
	return &c, nil
}

// Ensure ConversationRepository implements ports.ConversationRepository.
var _ ports.ConversationRepository = (*ConversationRepository)(nil)
