package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"github.com/redis/go-redis/v9"
)

// StoreSink persists notifications so the user can list them later
type StoreSink struct {
	repo repository.NotificationRepository
}

// NewStoreSink creates a sink backed by the notification repository
func NewStoreSink(repo repository.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "store" }

// Deliver stores the notification
func (s *StoreSink) Deliver(ctx context.Context, n domain.Notification) error {
	return s.repo.Create(ctx, n)
}

// ChannelPrefix namespaces per-user pub/sub channels
const ChannelPrefix = "notifications:"

// Channel returns the pub/sub channel for userID
func Channel(userID string) string {
	return ChannelPrefix + userID
}

// RedisSink publishes notifications on a per-user Redis channel so live
// clients can pick them up
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink creates a sink publishing through client
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

// Deliver publishes the notification as JSON
func (s *RedisSink) Deliver(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(message{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := s.client.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

type message struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt int64          `json:"created_at"`
}
