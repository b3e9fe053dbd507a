package bidding

import (
	"sync"
	"time"

	"auction-bidding/internal/identity"
	"auction-bidding/internal/models"

	"github.com/shopspring/decimal"
)

var t0 = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

// testClock is a settable clock shared by a test and the service
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// recordingNotifier keeps every announcement in order
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Announce(itemID string, kind models.EventKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, models.Event{ItemID: itemID, Kind: kind})
}

func (n *recordingNotifier) kinds(itemID string) []models.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.EventKind
	for _, ev := range n.events {
		if ev.ItemID == itemID {
			out = append(out, ev.Kind)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testTokens() *identity.Static {
	return identity.NewStatic(map[string]models.BidderIdentity{
		"token-alice":  {BidderID: "alice", DisplayName: "Alice"},
		"token-bob":    {BidderID: "bob", DisplayName: "Bob"},
		"token-carol":  {BidderID: "carol", DisplayName: "Carol"},
		"token-seller": {BidderID: "seller", DisplayName: "Seller"},
	})
}

func openItem(id, start string) models.Item {
	return models.Item{
		ItemID:        id,
		Title:         "title " + id,
		StartingPrice: dec(start),
		CreatedAt:     t0.Add(-time.Hour),
		EndTime:       t0.Add(time.Hour),
		SellerID:      "seller",
	}
}

func endedItem(id, start string) models.Item {
	item := openItem(id, start)
	item.EndTime = t0.Add(-time.Minute)
	return item
}
