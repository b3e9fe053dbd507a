package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidderIdentity is the stable identity of a participant, resolved from a token per call
type BidderIdentity struct {
	BidderID    string `json:"bidder_id"`
	DisplayName string `json:"display_name"`
}

// Item represents an auction item
type Item struct {
	ItemID        string          `json:"item_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CreatedAt     time.Time       `json:"created_at"`
	EndTime       time.Time       `json:"end_time"`
	SellerID      string          `json:"seller_id"`
	ImageRef      string          `json:"image_ref,omitempty"`
}

// Bid represents an accepted bid on an item. Bids are never updated.
type Bid struct {
	BidID      string          `json:"bid_id"`
	ItemID     string          `json:"item_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuctionStatus is the lifecycle position of an item at a given instant
type AuctionStatus string

const (
	StatusOpen  AuctionStatus = "open"
	StatusEnded AuctionStatus = "ended"
)

// AuctionState is derived from an item and its bid history, never stored
type AuctionState struct {
	ItemID       string          `json:"item_id"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Status       AuctionStatus   `json:"status"`
	Ended        bool            `json:"ended"`
	BidCount     int             `json:"bid_count"`
	EndTime      time.Time       `json:"end_time"`
	Leader       *Bid            `json:"leader,omitempty"`
	Winner       *Bid            `json:"winner,omitempty"`
}

// ItemSummary pairs an item with its derived state
type ItemSummary struct {
	Item  Item         `json:"item"`
	State AuctionState `json:"state"`
}

// ItemDetails is the detail view of one item; Bids are newest first
type ItemDetails struct {
	Item  Item         `json:"item"`
	Bids  []Bid        `json:"bids"`
	State AuctionState `json:"state"`
}

// NewItem holds the seller supplied fields of a listing
type NewItem struct {
	Title         string
	Description   string
	StartingPrice decimal.Decimal
	EndTime       time.Time
	ImageRef      string
}

// ItemUpdate lists the fields an owner wants to change; nil means unchanged
type ItemUpdate struct {
	Title         *string
	Description   *string
	ImageRef      *string
	StartingPrice *decimal.Decimal
	EndTime       *time.Time
}

// MyPage aggregates the items a bidder sells, bids on, leads and has won
type MyPage struct {
	Bidder  BidderIdentity `json:"bidder"`
	Selling []ItemSummary  `json:"selling"`
	Bidding []ItemSummary  `json:"bidding"`
	Leading []ItemSummary  `json:"leading"`
	Won     []ItemSummary  `json:"won"`
}

// EventKind names a state change announced to observers
type EventKind string

const (
	EventItemCreated  EventKind = "item_created"
	EventItemUpdated  EventKind = "item_updated"
	EventItemDeleted  EventKind = "item_deleted"
	EventBidAccepted  EventKind = "bid_accepted"
	EventAuctionEnded EventKind = "auction_ended"
)

// Event is one announcement queued for delivery
type Event struct {
	ItemID string    `json:"item_id"`
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
}
