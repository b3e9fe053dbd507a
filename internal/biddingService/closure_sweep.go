package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-bidding/internal/auction"
	"auction-bidding/internal/models"
	"auction-bidding/utils"
)

// RunClosureSweep announces auction_ended for items whose deadline passes while the
// process runs. Closure itself is always derived from the clock; the sweep only notifies.
// Items already ended at start-up are not announced.
func (s *BiddingService) RunClosureSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	transitions := auction.NewTransitions()
	if err := s.sweep(ctx, transitions, false); err != nil {
		utils.Warn("closure sweep: initial scan failed", map[string]any{"error": err.Error()})
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweep(ctx, transitions, true); err != nil {
				utils.Warn("closure sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// SweepClosures runs one sweep and returns the items announced as ended
func (s *BiddingService) SweepClosures(ctx context.Context, transitions *auction.Transitions) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: closure sweep: %w", err)
	}
	ended := transitions.Observe(items, s.clock.Now())
	for _, item := range ended {
		s.notifier.Announce(item.ItemID, models.EventAuctionEnded)
	}
	return ended, nil
}

func (s *BiddingService) sweep(ctx context.Context, transitions *auction.Transitions, announce bool) error {
	if announce {
		ended, err := s.SweepClosures(ctx, transitions)
		if err == nil && len(ended) > 0 {
			utils.Info("closure sweep: auctions ended", map[string]any{"count": len(ended)})
		}
		return err
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("service: closure sweep: %w", err)
	}
	transitions.Observe(items, s.clock.Now())
	return nil
}
