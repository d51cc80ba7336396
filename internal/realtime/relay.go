package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"medtracker/internal/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RelayChannel is the Redis channel events travel on between instances.
const RelayChannel = "medtracker:events"

type envelope struct {
	UserID int64           `json:"userId"`
	Event  json.RawMessage `json:"event"`
}

// RedisRelay fans events out through Redis pub/sub so every instance
// delivers them to its own connected clients.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
}

// NewRedisRelay creates a relay delivering into hub.
func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{client: client, hub: hub}
}

// Publish sends the event to all instances, this one included.
func (r *RedisRelay) Publish(ctx context.Context, userID int64, event Event) error {
	payload, err := encodeEnvelope(userID, event)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, RelayChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish realtime event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(event.Event).Inc()
	return nil
}

// Run subscribes to the relay channel and delivers incoming events until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, RelayChannel)
	defer sub.Close()

	log := logrus.WithField("component", "relay")
	log.Info("Realtime relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info("Realtime relay stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				log.Warn("Realtime relay channel closed")
				return
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *RedisRelay) handle(payload string) {
	env, err := decodeEnvelope(payload)
	if err != nil {
		logrus.WithError(err).Warn("Dropping malformed relay message")
		return
	}
	r.hub.Deliver(env.UserID, env.Event)
}

func encodeEnvelope(userID int64, event Event) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode realtime event: %w", err)
	}
	payload, err := json.Marshal(envelope{UserID: userID, Event: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay envelope: %w", err)
	}
	return payload, nil
}

func decodeEnvelope(payload string) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, err
	}
	if env.UserID <= 0 || len(env.Event) == 0 {
		return nil, fmt.Errorf("relay envelope missing user or event")
	}
	return &env, nil
}
