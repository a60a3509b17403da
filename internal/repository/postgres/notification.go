package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"studyledger/internal/domain"
)

// NotificationRepo implements repository.NotificationRepository
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores a notification
func (r *NotificationRepo) Create(ctx context.Context, n domain.Notification) error {
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode notification metadata: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, kind, title, body, metadata, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query, n.ID, n.UserID, string(n.Kind), n.Title, n.Body, raw, n.Read, n.CreatedAt)
	if err != nil {
		return unavailable("create notification", err)
	}
	return nil
}

// ListRecent returns the newest notifications for the user
func (r *NotificationRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, kind, title, body, metadata, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, unavailable("list notifications", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var kind string
		var raw []byte
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Body, &raw, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = domain.NotificationKind(kind)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &n.Metadata); err != nil {
				return nil, fmt.Errorf("decode notification metadata: %w", err)
			}
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkAllRead flags every unread notification of the user as read
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE user_id = $1 AND read = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, unavailable("mark notifications read", err)
	}
	return res.RowsAffected()
}

// DeleteReadOlderThan deletes read notifications older than specified days
func (r *NotificationRepo) DeleteReadOlderThan(ctx context.Context, days int) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE read = TRUE AND created_at < NOW() - INTERVAL '1 day' * $1
	`
	res, err := r.db.ExecContext(ctx, query, days)
	if err != nil {
		return 0, unavailable("delete old notifications", err)
	}
	return res.RowsAffected()
}
