package auction

import (
	"fmt"
	"time"

	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"
	"auction-bidding/utils"

	"github.com/shopspring/decimal"
)

// Snapshot is a consistent read of one item and its bid history.
// Item is nil when the item does not exist.
type Snapshot struct {
	Item *models.Item
	Bids []models.Bid
}

// Proposal is an incoming bid. Bidder is nil when the token could not be resolved.
type Proposal struct {
	ItemID string
	Bidder *models.BidderIdentity
	Amount decimal.Decimal
}

// Validator decides whether a proposal may be appended to a snapshot
type Validator struct {
	newID func() string
}

func NewValidator() Validator {
	return Validator{newID: utils.GenerateID}
}

// Validate returns the bid to append, or the reason the proposal is rejected.
// It has no side effects; persisting the bid is the caller's job.
func (v Validator) Validate(snap Snapshot, p Proposal, now time.Time) (models.Bid, error) {
	if snap.Item != nil && IsEnded(*snap.Item, now) {
		return models.Bid{}, fmt.Errorf("validator: %w - ended at %s", biddingerrors.ErrAuctionEnded, snap.Item.EndTime.Format(time.RFC3339))
	}
	if p.Bidder == nil || p.Bidder.BidderID == "" {
		return models.Bid{}, fmt.Errorf("validator: %w", biddingerrors.ErrUnknownBidder)
	}
	if snap.Item == nil {
		return models.Bid{}, fmt.Errorf("validator: item %s: %w", p.ItemID, biddingerrors.ErrAuctionNotFound)
	}

	current := CurrentPrice(*snap.Item, snap.Bids)
	if p.Amount.LessThanOrEqual(current) {
		return models.Bid{}, fmt.Errorf("validator: %w", &biddingerrors.BidTooLowError{CurrentPrice: current})
	}

	newID := v.newID
	if newID == nil {
		newID = utils.GenerateID
	}
	return models.Bid{
		BidID:      newID(),
		ItemID:     snap.Item.ItemID,
		BidderID:   p.Bidder.BidderID,
		BidderName: p.Bidder.DisplayName,
		Amount:     p.Amount,
		CreatedAt:  stampAfter(now, snap.Bids),
	}, nil
}

// stampAfter keeps creation timestamps strictly increasing within one item
func stampAfter(now time.Time, bids []models.Bid) time.Time {
	for _, b := range bids {
		if !now.After(b.CreatedAt) {
			now = b.CreatedAt.Add(time.Nanosecond)
		}
	}
	return now
}
