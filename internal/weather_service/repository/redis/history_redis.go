package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

// DefaultHistoryKey is the list holding searched cities.
const DefaultHistoryKey = "contactbook:weather:history"

// HistoryStore keeps the search history in a Redis list, head = most recent.
type HistoryStore struct {
	client *redis.Client
	key    string
}

var _ domain.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore(client *redis.Client, key string) *HistoryStore {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &HistoryStore{client: client, key: key}
}

// Add moves city to the front, dropping an older copy and anything past the limit.
func (s *HistoryStore) Add(ctx context.Context, city string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, s.key, 0, city)
		pipe.LPush(ctx, s.key, city)
		pipe.LTrim(ctx, s.key, 0, domain.HistoryLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record search history: %w", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context) ([]string, error) {
	cities, err := s.client.LRange(ctx, s.key, 0, domain.HistoryLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	return cities, nil
}
