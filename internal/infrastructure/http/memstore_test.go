package http

import (
	"context"
	"sync"
	"time"

	"github.com/ruxixa/chat-app/internal/domain"
)

// memStore backs router tests with an in-memory rendition of the schema:
// unique usernames, one conversation per unordered pair, messages with
// strictly increasing ids. It implements all three repository ports.
type memStore struct {
	mu      sync.Mutex
	users   map[domain.UserID]*domain.User
	convos  map[domain.ConversationID]*domain.Conversation
	msgs    []*domain.Message
	nextUID int64
	nextCID int64
	nextMID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[domain.UserID]*domain.User{},
		convos: map[domain.ConversationID]*domain.Conversation{},
	}
}

func (s *memStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUID++
	user.ID = domain.NewUserID(s.nextUID)
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for i := int64(1); i <= s.nextUID; i++ {
		if u, ok := s.users[domain.NewUserID(i)]; ok {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) GetOrCreate(ctx context.Context, a, b domain.UserID) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convos {
		if (c.User1ID == a && c.User2ID == b) || (c.User1ID == b && c.User2ID == a) {
			copied := *c
			return &copied, nil
		}
	}
	s.nextCID++
	c := &domain.Conversation{
		ID:        domain.NewConversationID(s.nextCID),
		User1ID:   a,
		User2ID:   b,
		CreatedAt: time.Now(),
	}
	s.convos[c.ID] = c
	copied := *c
	return &copied, nil
}

func (s *memStore) GetByIDConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convos[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Conversation
	for i := int64(1); i <= s.nextCID; i++ {
		if c, ok := s.convos[domain.NewConversationID(i)]; ok && c.HasMember(userID) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) Append(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMID++
	msg.ID = domain.NewMessageID(s.nextMID)
	msg.CreatedAt = time.Now()
	stored := *msg
	s.msgs = append(s.msgs, &stored)
	return nil
}

func (s *memStore) ListByConversation(ctx context.Context, id domain.ConversationID, limit int, before domain.MessageID) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Message
	for _, m := range s.msgs {
		if m.ConversationID != id {
			continue
		}
		if before != 0 && m.ID >= before {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// convoRepo adapts memStore to ports.ConversationRepository; the user and
// conversation GetByID methods would otherwise collide on one receiver.
type convoRepo struct{ *memStore }

func (r convoRepo) GetByID(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	return r.GetByIDConversation(ctx, id)
}
