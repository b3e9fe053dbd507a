package auction

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"auction-bidding/internal/biddingerrors"
)

// Guard serializes write sequences per item. Different items never contend.
type Guard struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  chan struct{}
	refs int
}

func NewGuard() *Guard {
	return &Guard{slots: make(map[string]*slot)}
}

// Run executes fn while holding the item's slot. A storage conflict re-runs fn once;
// a second conflict is reported as ErrConcurrentModification.
func (g *Guard) Run(ctx context.Context, itemID string, fn func() error) error {
	release, err := g.acquire(ctx, itemID)
	if err != nil {
		return err
	}
	defer release()

	err = fn()
	if !errors.Is(err, biddingerrors.ErrConcurrencyConflict) {
		return err
	}
	err = fn()
	if errors.Is(err, biddingerrors.ErrConcurrencyConflict) {
		return fmt.Errorf("guard: item %s: %w: %v", itemID, biddingerrors.ErrConcurrentModification, err)
	}
	return err
}

// acquire waits for the item's slot. Waiting stops when ctx is done; a held slot is never interrupted.
func (g *Guard) acquire(ctx context.Context, itemID string) (func(), error) {
	g.mu.Lock()
	s, ok := g.slots[itemID]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		g.slots[itemID] = s
	}
	s.refs++
	g.mu.Unlock()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		g.unref(itemID, s)
		return nil, fmt.Errorf("guard: waiting for item %s: %w", itemID, ctx.Err())
	}

	return func() {
		<-s.sem
		g.unref(itemID, s)
	}, nil
}

func (g *Guard) unref(itemID string, s *slot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(g.slots, itemID)
	}
}

// active returns the number of items with a holder or waiter
func (g *Guard) active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}
