package auction

import (
	"time"

	"auction-bidding/internal/models"
)

// IsEnded reports whether the item's deadline has passed at now. Ended is terminal.
func IsEnded(item models.Item, now time.Time) bool {
	return !now.Before(item.EndTime)
}

// StatusAt returns the lifecycle status of item at now
func StatusAt(item models.Item, now time.Time) models.AuctionStatus {
	if IsEnded(item, now) {
		return models.StatusEnded
	}
	return models.StatusOpen
}

// Resolve computes the full derived state of an item from its bid history
func Resolve(item models.Item, bids []models.Bid, now time.Time) models.AuctionState {
	return NewView(item, bids).State(now)
}

// Transitions tracks which items have already been observed as ended, so that
// a periodic sweep announces each closure once. It never influences state.
type Transitions struct {
	announced map[string]struct{}
}

func NewTransitions() *Transitions {
	return &Transitions{announced: make(map[string]struct{})}
}

// Observe returns the items that are ended at now and were not reported before.
// Items missing from the list are forgotten.
func (t *Transitions) Observe(items []models.Item, now time.Time) []models.Item {
	seen := make(map[string]struct{}, len(items))
	var ended []models.Item
	for _, item := range items {
		seen[item.ItemID] = struct{}{}
		if !IsEnded(item, now) {
			continue
		}
		if _, ok := t.announced[item.ItemID]; ok {
			continue
		}
		t.announced[item.ItemID] = struct{}{}
		ended = append(ended, item)
	}
	for id := range t.announced {
		if _, ok := seen[id]; !ok {
			delete(t.announced, id)
		}
	}
	return ended
}
