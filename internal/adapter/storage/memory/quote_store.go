package memory

import (
	"context"
	"sync"
	"time"

	"trading-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// QuoteStore implements ports.QuoteStore in process, for deployments
// that run without Redis. Expiry is enforced on read; a janitor sweep
// reclaims evicted entries.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[uuid.UUID]storedQuote
	now    func() time.Time
}

type storedQuote struct {
	quote     domain.Quote
	expiresAt time.Time
}

// NewQuoteStore creates an empty in-memory quote store.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{
		quotes: make(map[uuid.UUID]storedQuote),
		now:    time.Now,
	}
}

// Save stores the quote for ttl. Non-positive ttl means the quote is
// already expired and is not stored.
func (s *QuoteStore) Save(_ context.Context, quote *domain.Quote, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[quote.ID] = storedQuote{quote: *quote, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get returns the stored quote, or nil if absent or expired.
func (s *QuoteStore) Get(_ context.Context, id uuid.UUID) (*domain.Quote, error) {
	s.mu.RLock()
	entry, ok := s.quotes[id]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, nil
	}
	q := entry.quote
	return &q, nil
}

// Sweep removes expired quotes. Called periodically by the owner.
func (s *QuoteStore) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.quotes {
		if now.After(entry.expiresAt) {
			delete(s.quotes, id)
		}
	}
}
