package auth

import (
	"context"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

// VerifyCredentials resolves a username/password pair to a user. It runs on
// every protected request: there are no sessions or tokens, so the caller
// resupplies the credential each time and the lookup always hits the store.
type VerifyCredentials struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewVerifyCredentials(users ports.UserRepository, hasher ports.PasswordHasher) *VerifyCredentials {
	return &VerifyCredentials{users: users, hasher: hasher}
}

// Execute returns the authenticated user, ErrMissingCredentials when either
// field is empty, or ErrInvalidCredentials on any mismatch. Unknown username
// and wrong password are deliberately indistinguishable to the caller.
func (uc *VerifyCredentials) Execute(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domerrors.ErrMissingCredentials
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	return user, nil
}
