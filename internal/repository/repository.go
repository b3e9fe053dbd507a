package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"auction-bidding/internal/biddingerrors"
	model "auction-bidding/internal/models"
)

// AuctionDB defines the item and bid storage interface for the auction system.
// LoadBids returns bids in append order. AppendBid is atomic with respect to other
// appends for the same item and fails with ErrConcurrencyConflict when the stored bid
// count differs from expectedCount.
type AuctionDB interface {
	CreateItem(ctx context.Context, item model.Item) error
	LoadItem(ctx context.Context, itemID string) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListItemsBySeller(ctx context.Context, sellerID string) ([]model.Item, error)
	UpdateItem(ctx context.Context, item model.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	LoadBids(ctx context.Context, itemID string) ([]model.Bid, error)
	AppendBid(ctx context.Context, bid model.Bid, expectedCount int) error
	ItemIDsByBidder(ctx context.Context, bidderID string) ([]string, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu          sync.RWMutex
	bids        map[string][]model.Bid // key: itemID -> value: bids in append order
	items       map[string]model.Item  // key: itemID -> value: item
	bidderItems map[string][]string    // key: bidderID -> value: itemIDs in first-bid order
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:        make(map[string][]model.Bid),
		items:       make(map[string]model.Item),
		bidderItems: make(map[string][]string),
	}
}

// CreateItem stores a new item
func (r *MemoryRepo) CreateItem(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ItemID == "" {
		return fmt.Errorf("repository: create item: %w - empty item ID", biddingerrors.ErrInvalidItem)
	}
	if _, ok := r.items[item.ItemID]; ok {
		return fmt.Errorf("repository: create item %s: %w - duplicate ID", item.ItemID, biddingerrors.ErrInvalidItem)
	}
	r.items[item.ItemID] = item
	return nil
}

// LoadItem returns one item
func (r *MemoryRepo) LoadItem(_ context.Context, itemID string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("repository: load item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}
	return item, nil
}

// ListItems returns all items, newest first
func (r *MemoryRepo) ListItems(_ context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sortNewestFirst(items)
	return items, nil
}

// ListItemsBySeller returns the seller's items, newest first
func (r *MemoryRepo) ListItemsBySeller(_ context.Context, sellerID string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []model.Item{}
	for _, item := range r.items {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

// UpdateItem replaces a stored item
func (r *MemoryRepo) UpdateItem(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ItemID]; !ok {
		return fmt.Errorf("repository: update item %s: %w", item.ItemID, biddingerrors.ErrAuctionNotFound)
	}
	r.items[item.ItemID] = item
	return nil
}

// DeleteItem removes an item together with its bids
func (r *MemoryRepo) DeleteItem(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return fmt.Errorf("repository: delete item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}
	for _, bid := range r.bids[itemID] {
		r.bidderItems[bid.BidderID] = removeID(r.bidderItems[bid.BidderID], itemID)
		if len(r.bidderItems[bid.BidderID]) == 0 {
			delete(r.bidderItems, bid.BidderID)
		}
	}
	delete(r.bids, itemID)
	delete(r.items, itemID)
	return nil
}

// LoadBids returns a copy of all bids for an item in append order
func (r *MemoryRepo) LoadBids(_ context.Context, itemID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.items[itemID]; !ok {
		return nil, fmt.Errorf("repository: load bids for item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}
	return append([]model.Bid{}, r.bids[itemID]...), nil
}

// AppendBid records a bid if the item still has exactly expectedCount bids
func (r *MemoryRepo) AppendBid(_ context.Context, bid model.Bid, expectedCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.ItemID]; !ok {
		return fmt.Errorf("repository: append bid for item %s: %w", bid.ItemID, biddingerrors.ErrAuctionNotFound)
	}
	if got := len(r.bids[bid.ItemID]); got != expectedCount {
		return fmt.Errorf("repository: append bid for item %s: %w - expected %d bids, found %d",
			bid.ItemID, biddingerrors.ErrConcurrencyConflict, expectedCount, got)
	}
	r.bids[bid.ItemID] = append(r.bids[bid.ItemID], bid)

	for _, id := range r.bidderItems[bid.BidderID] {
		if id == bid.ItemID {
			return nil
		}
	}
	r.bidderItems[bid.BidderID] = append(r.bidderItems[bid.BidderID], bid.ItemID)
	return nil
}

// ItemIDsByBidder returns the distinct items a bidder has bid on
func (r *MemoryRepo) ItemIDsByBidder(_ context.Context, bidderID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.bidderItems[bidderID]...), nil
}

func sortNewestFirst(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ItemID < items[j].ItemID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
