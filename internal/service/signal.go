package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ravenridge/questforge/internal/domain"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, event domain.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Subscribe fans a pub/sub channel out as decoded events. The returned stop
// function closes the subscription and the channel.
func (s *SignalService) Subscribe(ctx context.Context, channel string) (<-chan domain.Event, func()) {
	sub := s.rdb.Subscribe(ctx, channel)
	out := make(chan domain.Event)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = sub.Close()
	}
	return out, stop
}
