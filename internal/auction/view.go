package auction

import (
	"time"

	"auction-bidding/internal/models"

	"github.com/shopspring/decimal"
)

// View is an incrementally maintained summary of one item's bid history.
// It is a value: Apply returns a new View and never changes the receiver.
type View struct {
	Item      models.Item
	Price     decimal.Decimal
	Leader    *models.Bid
	Count     int
	LastBidAt time.Time
}

// NewView builds a View from a full bid history in append order
func NewView(item models.Item, bids []models.Bid) View {
	v := View{Item: item, Price: CurrentPrice(item, bids), Count: len(bids)}
	if leader, ok := Leader(bids); ok {
		v.Leader = &leader
	}
	for _, b := range bids {
		if b.CreatedAt.After(v.LastBidAt) {
			v.LastBidAt = b.CreatedAt
		}
	}
	return v
}

// Apply folds one more bid into the view. The result equals NewView over the extended history.
func (v View) Apply(bid models.Bid) View {
	next := v
	if v.Count == 0 || bid.Amount.GreaterThan(v.Price) {
		next.Price = bid.Amount
	}
	if v.Leader == nil || outranks(bid, *v.Leader) {
		b := bid
		next.Leader = &b
	}
	if bid.CreatedAt.After(v.LastBidAt) {
		next.LastBidAt = bid.CreatedAt
	}
	next.Count = v.Count + 1
	return next
}

// WithItem returns the view with refreshed item fields; bid-derived fields are kept
func (v View) WithItem(item models.Item) View {
	next := v
	next.Item = item
	if v.Count == 0 {
		next.Price = item.StartingPrice
	}
	return next
}

// State renders the derived auction state at now
func (v View) State(now time.Time) models.AuctionState {
	ended := IsEnded(v.Item, now)
	state := models.AuctionState{
		ItemID:       v.Item.ItemID,
		CurrentPrice: v.Price,
		Status:       StatusAt(v.Item, now),
		Ended:        ended,
		BidCount:     v.Count,
		EndTime:      v.Item.EndTime,
	}
	if v.Leader != nil {
		leader := *v.Leader
		state.Leader = &leader
		if ended {
			winner := *v.Leader
			state.Winner = &winner
		}
	}
	return state
}

// LeadBy reports whether bidderID holds the current or final winning bid
func (v View) LeadBy(bidderID string) bool {
	return v.Leader != nil && v.Leader.BidderID == bidderID
}

// WonBy reports whether bidderID won the item at now
func (v View) WonBy(bidderID string, now time.Time) bool {
	return IsEnded(v.Item, now) && v.LeadBy(bidderID)
}
