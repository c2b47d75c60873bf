package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tasklane/tasklane/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// EnsureUser creates a user profile if one does not already exist for
// the subject. The conditional insert makes concurrent first requests
// from a new user safe: both issue the insert, one wins, neither fails.
func (r *Repository) EnsureUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (uid, name, email, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		user.UID,
		user.Name,
		user.Email,
		user.AvatarURL,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	return nil
}

// GetUserByUID retrieves a user by their subject id.
func (r *Repository) GetUserByUID(ctx context.Context, uid string) (*model.User, error) {
	query := `
		SELECT uid, name, email, avatar_url, created_at
		FROM users
		WHERE uid = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&user.UID,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by uid: %w", err)
	}

	return &user, nil
}

// ListUsers retrieves every user profile, ordered by display name.
func (r *Repository) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT uid, name, email, avatar_url, created_at
		FROM users
		ORDER BY name, uid
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.UID,
			&user.Name,
			&user.Email,
			&user.AvatarURL,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
