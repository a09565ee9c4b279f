package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends events to a redis stream consumed by the automation
// workers (webhook dispatch, email queue).
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink creates a RedisSink publishing to the given stream
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

// Notify appends the event to the stream
func (s *RedisSink) Notify(ctx context.Context, eventType string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: 100000,
		Approx: true,
		Values: map[string]interface{}{
			"event_type": eventType,
			"payload":    string(data),
			"emitted_at": time.Now().Format(time.RFC3339),
		},
	}).Err()
}
