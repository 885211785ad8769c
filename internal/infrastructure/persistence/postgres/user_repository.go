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
	createUserSQL = `INSERT INTO users (username, password_hash, full_name, profile_picture, registration_date)
	 VALUES ($1, $2, $3, $4, $5)
	 RETURNING user_id`

	getUserByUsernameSQL = `SELECT user_id, username, password_hash, full_name, profile_picture, registration_date
	 FROM users WHERE username = $1`

	getUserByIDSQL = `SELECT user_id, username, password_hash, full_name, profile_picture, registration_date
	 FROM users WHERE user_id = $1`

	listUsersSQL = `SELECT user_id, username, password_hash, full_name, profile_picture, registration_date
	 FROM users ORDER BY user_id`
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	var id int64
	err := r.db.QueryRow(ctx, createUserSQL,
		user.Username, user.PasswordHash, user.FullName, user.ProfilePicture, user.RegistrationDate,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = domain.NewUserID(id)
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, getUserByUsernameSQL, username))
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, getUserByIDSQL, id.Int64()))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var id int64
		if err := rows.Scan(&id, &u.Username, &u.PasswordHash, &u.FullName, &u.ProfilePicture, &u.RegistrationDate); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID = domain.NewUserID(id)
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var id int64
	err := row.Scan(&id, &u.Username, &u.PasswordHash, &u.FullName, &u.ProfilePicture, &u.RegistrationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.ID = domain.NewUserID(id)
	return &u, nil
}

// Ensure UserRepository implements ports.UserRepository.
var _ ports.UserRepository = (*UserRepository)(nil)
