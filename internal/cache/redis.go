package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects and pings. Callers run without the bus when this
// fails; caches stay process-local either way.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Bus carries invalidation notices between replicas over Redis pub/sub.
// Each message holds the sender's instance id so a replica ignores its own.
type Bus struct {
	client     *redis.Client
	channel    string
	instanceID string
	log        *zap.Logger
}

func NewBus(client *redis.Client, channel string, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

func (b *Bus) Publish(ctx context.Context) error {
	return b.client.Publish(ctx, b.channel, b.instanceID).Err()
}

// Listen subscribes and calls onRemote for every notice sent by another
// replica until ctx is done.
func (b *Bus) Listen(ctx context.Context, onRemote func()) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if isOwnMessage(msg.Payload, b.instanceID) {
					continue
				}
				b.log.Info("remote cache invalidation", zap.String("from", msg.Payload))
				onRemote()
			}
		}
	}()
	return nil
}

func isOwnMessage(payload, instanceID string) bool {
	return payload == instanceID
}
