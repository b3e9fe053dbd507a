package bidding

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"auction-bidding/internal/auction"
	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"
	"auction-bidding/utils"

	"github.com/shopspring/decimal"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

var maxStartingPrice = decimal.NewFromInt(100_000_000)

// CreateItem lists a new item on behalf of the token's holder
func (s *BiddingService) CreateItem(ctx context.Context, sellerToken string, in models.NewItem) (models.Item, error) {
	seller, err := s.requireBidder(ctx, sellerToken)
	if err != nil {
		return models.Item{}, err
	}

	now := s.clock.Now()
	item := models.Item{
		ItemID:        utils.GenerateID(),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		StartingPrice: in.StartingPrice,
		CreatedAt:     now,
		EndTime:       in.EndTime.UTC(),
		SellerID:      seller.BidderID,
		ImageRef:      in.ImageRef,
	}
	if err := validateItem(item); err != nil {
		return models.Item{}, fmt.Errorf("service: %w", err)
	}
	if !item.EndTime.After(now) {
		return models.Item{}, fmt.Errorf("service: %w - end time must be in the future", biddingerrors.ErrInvalidItem)
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to create item: %w", err)
	}
	s.views.store(auction.NewView(item, nil))
	s.notifier.Announce(item.ItemID, models.EventItemCreated)
	return item, nil
}

// UpdateItem edits an item owned by the token's holder. Title, description and image
// may always change; starting price and end time only while the item is open and unbid.
func (s *BiddingService) UpdateItem(ctx context.Context, ownerToken, itemID string, upd models.ItemUpdate) (models.Item, error) {
	owner, err := s.requireBidder(ctx, ownerToken)
	if err != nil {
		return models.Item{}, err
	}

	var updated models.Item
	err = s.guard.Run(ctx, itemID, func() error {
		item, bids, err := s.ownedItem(ctx, itemID, owner)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if upd.StartingPrice != nil || upd.EndTime != nil {
			if len(bids) > 0 {
				return fmt.Errorf("%w - price and end time are frozen", biddingerrors.ErrItemHasBids)
			}
			if auction.IsEnded(item, now) {
				return fmt.Errorf("%w - price and end time are frozen", biddingerrors.ErrAuctionEnded)
			}
		}

		if upd.Title != nil {
			item.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description != nil {
			item.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.ImageRef != nil {
			item.ImageRef = *upd.ImageRef
		}
		if upd.StartingPrice != nil {
			item.StartingPrice = *upd.StartingPrice
		}
		if upd.EndTime != nil {
			item.EndTime = upd.EndTime.UTC()
			if !item.EndTime.After(now) {
				return fmt.Errorf("%w - end time must be in the future", biddingerrors.ErrInvalidItem)
			}
		}
		if err := validateItem(item); err != nil {
			return err
		}

		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return err
		}
		s.views.store(auction.NewView(item, bids))
		updated = item
		return nil
	})
	if err != nil {
		return models.Item{}, fmt.Errorf("service: update item %s: %w", itemID, err)
	}

	s.notifier.Announce(itemID, models.EventItemUpdated)
	return updated, nil
}

// DeleteItem removes an unbid item owned by the token's holder
func (s *BiddingService) DeleteItem(ctx context.Context, ownerToken, itemID string) error {
	owner, err := s.requireBidder(ctx, ownerToken)
	if err != nil {
		return err
	}

	err = s.guard.Run(ctx, itemID, func() error {
		_, bids, err := s.ownedItem(ctx, itemID, owner)
		if err != nil {
			return err
		}
		if len(bids) > 0 {
			return fmt.Errorf("%w - bid history must be preserved", biddingerrors.ErrItemHasBids)
		}
		if err := s.repo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		s.views.drop(itemID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service: delete item %s: %w", itemID, err)
	}

	s.notifier.Announce(itemID, models.EventItemDeleted)
	return nil
}

// ListItems returns every item newest first with its derived state
func (s *BiddingService) ListItems(ctx context.Context) ([]models.ItemSummary, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	summaries, err := s.summarize(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return summaries, nil
}

// GetItemDetails returns an item, its bids newest first and its derived state
func (s *BiddingService) GetItemDetails(ctx context.Context, itemID string) (models.ItemDetails, error) {
	if itemID == "" {
		return models.ItemDetails{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	item, err := s.repo.LoadItem(ctx, itemID)
	if err != nil {
		return models.ItemDetails{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	bids, err := s.repo.LoadBids(ctx, itemID)
	if err != nil {
		return models.ItemDetails{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	v := s.views.offer(auction.NewView(item, bids))

	newestFirst := make([]models.Bid, len(bids))
	for i, b := range bids {
		newestFirst[len(bids)-1-i] = b
	}
	return models.ItemDetails{
		Item:  item,
		Bids:  newestFirst,
		State: v.State(s.clock.Now()),
	}, nil
}

// ownedItem loads an item and its bids, checking that owner is the seller
func (s *BiddingService) ownedItem(ctx context.Context, itemID string, owner models.BidderIdentity) (models.Item, []models.Bid, error) {
	item, err := s.repo.LoadItem(ctx, itemID)
	if err != nil {
		return models.Item{}, nil, err
	}
	if item.SellerID != owner.BidderID {
		return models.Item{}, nil, fmt.Errorf("%w - item belongs to another seller", biddingerrors.ErrNotItemOwner)
	}
	bids, err := s.repo.LoadBids(ctx, itemID)
	if err != nil {
		return models.Item{}, nil, err
	}
	return item, bids, nil
}

// summarize pairs items with their derived state, using cached views where present
func (s *BiddingService) summarize(ctx context.Context, items []models.Item) ([]models.ItemSummary, error) {
	now := s.clock.Now()
	out := make([]models.ItemSummary, 0, len(items))
	for _, item := range items {
		v, ok := s.views.get(item.ItemID)
		if !ok {
			bids, err := s.repo.LoadBids(ctx, item.ItemID)
			if err != nil {
				return nil, err
			}
			v = s.views.offer(auction.NewView(item, bids))
		}
		out = append(out, models.ItemSummary{Item: v.Item, State: v.State(now)})
	}
	return out, nil
}

func validateItem(item models.Item) error {
	switch {
	case item.Title == "":
		return fmt.Errorf("%w - title is required", biddingerrors.ErrInvalidItem)
	case utf8.RuneCountInString(item.Title) > maxTitleLength:
		return fmt.Errorf("%w - title exceeds %d characters", biddingerrors.ErrInvalidItem, maxTitleLength)
	case utf8.RuneCountInString(item.Description) > maxDescriptionLength:
		return fmt.Errorf("%w - description exceeds %d characters", biddingerrors.ErrInvalidItem, maxDescriptionLength)
	case item.StartingPrice.IsNegative():
		return fmt.Errorf("%w - starting price must not be negative", biddingerrors.ErrInvalidItem)
	case item.StartingPrice.GreaterThan(maxStartingPrice):
		return fmt.Errorf("%w - starting price exceeds %s", biddingerrors.ErrInvalidItem, maxStartingPrice)
	case !item.EndTime.After(item.CreatedAt):
		return fmt.Errorf("%w - end time must be after creation time", biddingerrors.ErrInvalidItem)
	}
	return nil
}

