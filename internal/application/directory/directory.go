// Package directory provides read-only access to user profiles. It feeds
// conversation-partner discovery; credential fields are stripped at the
// HTTP boundary, not here.
package directory

import (
	"context"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

// ListUsers returns every user profile.
type ListUsers struct {
	users ports.UserRepository
}

func NewListUsers(users ports.UserRepository) *ListUsers {
	return &ListUsers{users: users}
}

func (uc *ListUsers) Execute(ctx context.Context) ([]*domain.User, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// GetUser returns one user profile by ID.
type GetUser struct {
	users ports.UserRepository
}

func NewGetUser(users ports.UserRepository) *GetUser {
	return &GetUser{users: users}
}

func (uc *GetUser) Execute(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return user, nil
}
