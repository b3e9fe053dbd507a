package bidding

import (
	"context"
	"errors"
	"fmt"

	"auction-bidding/internal/auction"
	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"
	"auction-bidding/internal/repository"

	"github.com/shopspring/decimal"
)

// BidderResolver turns a per-call token into a bidder identity
type BidderResolver interface {
	ResolveBidder(ctx context.Context, token string) (models.BidderIdentity, error)
}

// Notifier receives fire-and-forget state change announcements
type Notifier interface {
	Announce(itemID string, kind models.EventKind)
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo      repository.AuctionDB
	identity  BidderResolver
	notifier  Notifier
	clock     auction.Clock
	guard     *auction.Guard
	validator auction.Validator
	views     *viewCache
}

// Option customizes a BiddingService
type Option func(*BiddingService)

// WithClock injects the time source
func WithClock(clock auction.Clock) Option {
	return func(s *BiddingService) { s.clock = clock }
}

// WithNotifier sets the announcement target
func WithNotifier(n Notifier) Option {
	return func(s *BiddingService) { s.notifier = n }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, identity BidderResolver, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:      repo,
		identity:  identity,
		notifier:  nopNotifier{},
		clock:     auction.SystemClock{},
		guard:     auction.NewGuard(),
		validator: auction.NewValidator(),
		views:     newViewCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates and records a bid. The read-validate-append sequence runs under
// the item's guard, so every bid is checked against the state left by the previous one.
func (s *BiddingService) PlaceBid(ctx context.Context, itemID, bidderToken string, amount decimal.Decimal) (models.Bid, error) {
	if itemID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing item ID", biddingerrors.ErrInvalidBid)
	}
	bidder, err := s.resolveBidder(ctx, bidderToken)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: resolve bidder: %w", err)
	}

	var accepted models.Bid
	err = s.guard.Run(ctx, itemID, func() error {
		snap, err := s.snapshot(ctx, itemID)
		if err != nil {
			return err
		}
		bid, err := s.validator.Validate(snap, auction.Proposal{ItemID: itemID, Bidder: bidder, Amount: amount}, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.repo.AppendBid(ctx, bid, len(snap.Bids)); err != nil {
			return err
		}
		s.views.advance(*snap.Item, snap.Bids, bid)
		accepted = bid
		return nil
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: place bid on item %s: %w", itemID, err)
	}

	s.notifier.Announce(itemID, models.EventBidAccepted)
	return accepted, nil
}

// GetAuctionState returns the derived state of an item
func (s *BiddingService) GetAuctionState(ctx context.Context, itemID string) (models.AuctionState, error) {
	if itemID == "" {
		return models.AuctionState{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	v, err := s.view(ctx, itemID)
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("service: failed to get state for item %s: %w", itemID, err)
	}
	return v.State(s.clock.Now()), nil
}

// GetBidsForItem returns all bids for a specific item in acceptance order
func (s *BiddingService) GetBidsForItem(ctx context.Context, itemID string) ([]models.Bid, error) {
	if itemID == "" {
		return nil, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	bids, err := s.repo.LoadBids(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}
	return bids, nil
}

// GetWinningBid returns the winner of an ended item
func (s *BiddingService) GetWinningBid(ctx context.Context, itemID string) (models.Bid, error) {
	if itemID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	v, err := s.view(ctx, itemID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for item %s: %w", itemID, err)
	}
	state := v.State(s.clock.Now())
	if !state.Ended {
		return models.Bid{}, fmt.Errorf("service: winning bid for item %s: %w", itemID, biddingerrors.ErrAuctionOpen)
	}
	if state.Winner == nil {
		return models.Bid{}, fmt.Errorf("service: winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return *state.Winner, nil
}

// snapshot reads an item and its full history for the write path, bypassing the cache
func (s *BiddingService) snapshot(ctx context.Context, itemID string) (auction.Snapshot, error) {
	item, err := s.repo.LoadItem(ctx, itemID)
	if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
		return auction.Snapshot{}, nil
	}
	if err != nil {
		return auction.Snapshot{}, err
	}
	bids, err := s.repo.LoadBids(ctx, itemID)
	if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
		return auction.Snapshot{}, nil
	}
	if err != nil {
		return auction.Snapshot{}, err
	}
	return auction.Snapshot{Item: &item, Bids: bids}, nil
}

// view returns the cached summary of an item, loading it on a miss
func (s *BiddingService) view(ctx context.Context, itemID string) (auction.View, error) {
	if v, ok := s.views.get(itemID); ok {
		return v, nil
	}
	item, err := s.repo.LoadItem(ctx, itemID)
	if err != nil {
		return auction.View{}, err
	}
	bids, err := s.repo.LoadBids(ctx, itemID)
	if err != nil {
		return auction.View{}, err
	}
	return s.views.offer(auction.NewView(item, bids)), nil
}

// resolveBidder returns nil for an unauthenticated token; other failures are faults
func (s *BiddingService) resolveBidder(ctx context.Context, token string) (*models.BidderIdentity, error) {
	id, err := s.identity.ResolveBidder(ctx, token)
	if errors.Is(err, biddingerrors.ErrUnauthenticated) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// requireBidder is resolveBidder for operations that cannot proceed anonymously
func (s *BiddingService) requireBidder(ctx context.Context, token string) (models.BidderIdentity, error) {
	id, err := s.resolveBidder(ctx, token)
	if err != nil {
		return models.BidderIdentity{}, fmt.Errorf("service: resolve bidder: %w", err)
	}
	if id == nil {
		return models.BidderIdentity{}, fmt.Errorf("service: %w", biddingerrors.ErrUnknownBidder)
	}
	return *id, nil
}

type nopNotifier struct{}

func (nopNotifier) Announce(string, models.EventKind) {}
