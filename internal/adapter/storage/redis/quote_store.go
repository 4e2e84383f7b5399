package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trading-gateway/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// QuoteStore implements ports.QuoteStore using Redis. Quotes are stored
// with a TTL equal to their remaining validity, so expiry doubles as
// eviction.
type QuoteStore struct {
	client *goredis.Client
	prefix string
}

// NewQuoteStore creates a new Redis-backed quote store.
func NewQuoteStore(client *goredis.Client) *QuoteStore {
	return &QuoteStore{
		client: client,
		prefix: "quote:",
	}
}

// Save stores the quote for ttl.
func (s *QuoteStore) Save(ctx context.Context, quote *domain.Quote, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing worth storing
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshaling quote: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+quote.ID.String(), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis quote set: %w", err)
	}
	return nil
}

// Get returns the stored quote, or nil if absent or already evicted.
func (s *QuoteStore) Get(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	data, err := s.client.Get(ctx, s.prefix+id.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis quote get: %w", err)
	}
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshaling quote: %w", err)
	}
	return &quote, nil
}
