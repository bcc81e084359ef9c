package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ChannelPrefix is prepended to the recipient id to form the pub/sub channel.
const ChannelPrefix = "notifications:"

// Channel returns the redis channel a recipient's notifications are published on
func Channel(recipientID int64) string {
	return ChannelPrefix + strconv.FormatInt(recipientID, 10)
}

// RedisPublisher publishes notifications over redis pub/sub
type RedisPublisher struct {
	client redis.UniversalClient
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher on an existing client
func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// NewRedisClient parses url (redis://...) and verifies the server is reachable
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Publish sends n as JSON on the recipient's channel
func (p *RedisPublisher) Publish(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n.ToResponse())
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(n.RecipientID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
