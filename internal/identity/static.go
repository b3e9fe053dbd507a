package identity

import (
	"context"
	"fmt"
	"sync"

	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"
)

// Static resolves tokens from a fixed table. Used for local runs and tests.
type Static struct {
	mu     sync.RWMutex
	tokens map[string]models.BidderIdentity
}

func NewStatic(tokens map[string]models.BidderIdentity) *Static {
	s := &Static{tokens: make(map[string]models.BidderIdentity, len(tokens))}
	for token, id := range tokens {
		s.tokens[token] = id
	}
	return s
}

// Add registers or replaces a token
func (s *Static) Add(token string, id models.BidderIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = id
}

func (s *Static) ResolveBidder(_ context.Context, token string) (models.BidderIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return models.BidderIdentity{}, fmt.Errorf("identity: %w - unknown token", biddingerrors.ErrUnauthenticated)
	}
	return id, nil
}
