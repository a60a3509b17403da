package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized checks if the bot user has entered the password
func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM bot_users WHERE telegram_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&authorized)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("check authorization", err)
	}

	return authorized, nil
}

// AuthorizeUser marks the bot user as authorized
func (r *UserRepo) AuthorizeUser(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO bot_users (telegram_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (telegram_id)
		DO UPDATE SET authorized = TRUE
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return unavailable("authorize user", err)
	}
	return nil
}

// EnsureUserExists registers the bot user on first contact
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO bot_users (telegram_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (telegram_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return unavailable("ensure user", err)
	}
	return nil
}
