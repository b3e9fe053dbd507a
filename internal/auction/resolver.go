package auction

import (
	"time"

	"auction-bidding/internal/models"

	"github.com/shopspring/decimal"
)

// CurrentPrice returns the starting price when there are no bids, otherwise the maximum bid amount
func CurrentPrice(item models.Item, bids []models.Bid) decimal.Decimal {
	if len(bids) == 0 {
		return item.StartingPrice
	}
	price := bids[0].Amount
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(price) {
			price = b.Amount
		}
	}
	return price
}

// Leader returns the bid that would win if the auction closed now.
// Highest amount wins; ties go to the latest CreatedAt, then to the later position in bids.
func Leader(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	leader := bids[0]
	for _, b := range bids[1:] {
		if outranks(b, leader) {
			leader = b
		}
	}
	return leader, true
}

// Winner returns the winning bid once the item has ended, and false before that or when no bid exists
func Winner(item models.Item, bids []models.Bid, now time.Time) (models.Bid, bool) {
	if !IsEnded(item, now) {
		return models.Bid{}, false
	}
	return Leader(bids)
}

// outranks reports whether candidate beats current; equal keys favour the later candidate
func outranks(candidate, current models.Bid) bool {
	if c := candidate.Amount.Cmp(current.Amount); c != 0 {
		return c > 0
	}
	return !candidate.CreatedAt.Before(current.CreatedAt)
}
