package queue

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultChannel = "modelhub:notifications"

var _ Notifier = (*RedisNotifier)(nil)

// RedisNotifier publishes notifications on a redis pub/sub channel so that
// every server instance can relay them.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisNotifier{client: client, channel: channel}
}

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Subscribe streams the notifications published on the channel until ctx is done.
func (r *RedisNotifier) Subscribe(ctx context.Context) (<-chan Notification, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan Notification)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					logrus.Warnf("dropping malformed notification: %v", err)
					continue
				}

				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
