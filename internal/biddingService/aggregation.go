package bidding

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"auction-bidding/internal/auction"
	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"
)

// GetLeadingItems returns the items where bidderID holds the current or final winning bid.
// Each candidate is answered from its cached view; bid histories are only read on a cache miss.
func (s *BiddingService) GetLeadingItems(ctx context.Context, bidderID string) ([]models.ItemSummary, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty bidder ID", biddingerrors.ErrInvalidBid)
	}
	views, err := s.bidderViews(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get leading items for bidder %s: %w", bidderID, err)
	}

	now := s.clock.Now()
	leading := []models.ItemSummary{}
	for _, v := range views {
		if v.LeadBy(bidderID) {
			leading = append(leading, models.ItemSummary{Item: v.Item, State: v.State(now)})
		}
	}
	sort.SliceStable(leading, func(i, j int) bool {
		return leading[i].Item.EndTime.Before(leading[j].Item.EndTime)
	})
	return leading, nil
}

// GetMyPage aggregates what the token's holder sells, bids on, leads and has won
func (s *BiddingService) GetMyPage(ctx context.Context, token string) (models.MyPage, error) {
	me, err := s.requireBidder(ctx, token)
	if err != nil {
		return models.MyPage{}, err
	}

	selling, err := s.repo.ListItemsBySeller(ctx, me.BidderID)
	if err != nil {
		return models.MyPage{}, fmt.Errorf("service: failed to get selling items for %s: %w", me.BidderID, err)
	}
	sellingSummaries, err := s.summarize(ctx, selling)
	if err != nil {
		return models.MyPage{}, fmt.Errorf("service: failed to get selling items for %s: %w", me.BidderID, err)
	}

	views, err := s.bidderViews(ctx, me.BidderID)
	if err != nil {
		return models.MyPage{}, fmt.Errorf("service: failed to get bidding items for %s: %w", me.BidderID, err)
	}

	now := s.clock.Now()
	page := models.MyPage{
		Bidder:  me,
		Selling: sellingSummaries,
		Bidding: []models.ItemSummary{},
		Leading: []models.ItemSummary{},
		Won:     []models.ItemSummary{},
	}
	for _, v := range views {
		summary := models.ItemSummary{Item: v.Item, State: v.State(now)}
		page.Bidding = append(page.Bidding, summary)
		if v.WonBy(me.BidderID, now) {
			page.Won = append(page.Won, summary)
		} else if v.LeadBy(me.BidderID) {
			page.Leading = append(page.Leading, summary)
		}
	}

	sort.SliceStable(page.Bidding, func(i, j int) bool {
		return page.Bidding[i].Item.CreatedAt.After(page.Bidding[j].Item.CreatedAt)
	})
	sort.SliceStable(page.Leading, func(i, j int) bool {
		return page.Leading[i].Item.EndTime.Before(page.Leading[j].Item.EndTime)
	})
	sort.SliceStable(page.Won, func(i, j int) bool {
		return page.Won[i].Item.EndTime.After(page.Won[j].Item.EndTime)
	})
	return page, nil
}

// bidderViews returns the views of every item bidderID has bid on; deleted items are skipped
func (s *BiddingService) bidderViews(ctx context.Context, bidderID string) ([]auction.View, error) {
	ids, err := s.repo.ItemIDsByBidder(ctx, bidderID)
	if err != nil {
		return nil, err
	}
	views := make([]auction.View, 0, len(ids))
	for _, id := range ids {
		v, err := s.view(ctx, id)
		if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
