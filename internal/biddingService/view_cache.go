package bidding

import (
	"sync"

	"auction-bidding/internal/auction"
	"auction-bidding/internal/models"
)

// viewCache holds the per-item price/leader summaries shared by all read paths.
// Only the guarded write path replaces an entry unconditionally; readers may only
// fill a gap or install a view with more bids than the cached one.
type viewCache struct {
	mu      sync.RWMutex
	views   map[string]auction.View
	deleted map[string]struct{}
}

func newViewCache() *viewCache {
	return &viewCache{
		views:   make(map[string]auction.View),
		deleted: make(map[string]struct{}),
	}
}

func (c *viewCache) get(itemID string) (auction.View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[itemID]
	return v, ok
}

// offer installs a view built by a reader and returns the view now cached
func (c *viewCache) offer(v auction.View) auction.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, gone := c.deleted[v.Item.ItemID]; gone {
		return v
	}
	if cur, ok := c.views[v.Item.ItemID]; ok && cur.Count >= v.Count {
		return cur
	}
	c.views[v.Item.ItemID] = v
	return v
}

// store replaces the entry; callers hold the item's guard
func (c *viewCache) store(v auction.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deleted, v.Item.ItemID)
	c.views[v.Item.ItemID] = v
}

// advance records an appended bid. bids is the history the bid was validated against.
func (c *viewCache) advance(item models.Item, bids []models.Bid, bid models.Bid) auction.View {
	var next auction.View
	if cur, ok := c.get(item.ItemID); ok && cur.Count == len(bids) {
		next = cur.WithItem(item).Apply(bid)
	} else {
		history := make([]models.Bid, 0, len(bids)+1)
		history = append(history, bids...)
		next = auction.NewView(item, append(history, bid))
	}
	c.store(next)
	return next
}

func (c *viewCache) drop(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, itemID)
	c.deleted[itemID] = struct{}{}
}
