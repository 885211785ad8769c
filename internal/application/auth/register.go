package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,64}$`)

type RegisterUserInput struct {
	Username       string
	Password       string
	FullName       string
	ProfilePicture string
}

type RegisterUserResult struct {
	User *domain.User
}

// RegisterUser creates an account. Exposed only through the admin boundary;
// the messaging API itself has no signup.
type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher}
}

func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserResult, error) {
	if !usernameRegex.MatchString(input.Username) {
		return nil, domerrors.ErrInvalidCredentials
	}
	existing, err := uc.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:         input.Username,
		PasswordHash:     hash,
		FullName:         input.FullName,
		ProfilePicture:   input.ProfilePicture,
		RegistrationDate: time.Now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &RegisterUserResult{User: user}, nil
}
