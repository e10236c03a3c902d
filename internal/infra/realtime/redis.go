package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Event is the JSON envelope clients receive on their channel.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sent_at"`
}

func Channel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID uint, eventType string, payload any) error {
	b, err := json.Marshal(Event{Type: eventType, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(userID), b).Err()
}

// Subscribe streams the events of one user until ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context, userID uint) (<-chan string, func() error) {
	sub := p.rdb.Subscribe(ctx, Channel(userID))
	out := make(chan string)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, sub.Close
}

// NopPublisher is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uint, string, any) error { return nil }
