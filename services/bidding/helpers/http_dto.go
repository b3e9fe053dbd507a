package helpers

import (
	"time"

	model "auction-bidding/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	ItemID string          `json:"item_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID      string `json:"bid_id"`
	ItemID     string `json:"item_id"`
	BidderID   string `json:"bidder_id"`
	BidderName string `json:"bidder_name"`
	Amount     string `json:"amount"`
	CreatedAt  string `json:"created_at"`
}

type CreateItemRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	EndTime       time.Time       `json:"end_time"`
	ImageRef      string          `json:"image_ref"`
}

type UpdateItemRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	ImageRef      *string          `json:"image_ref"`
	StartingPrice *decimal.Decimal `json:"starting_price"`
	EndTime       *time.Time       `json:"end_time"`
}

// NewBidResponse renders a bid for the wire
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:      bid.BidID,
		ItemID:     bid.ItemID,
		BidderID:   bid.BidderID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount.String(),
		CreatedAt:  bid.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r CreateItemRequest) ToNewItem() model.NewItem {
	return model.NewItem{
		Title:         r.Title,
		Description:   r.Description,
		StartingPrice: r.StartingPrice,
		EndTime:       r.EndTime,
		ImageRef:      r.ImageRef,
	}
}

func (r UpdateItemRequest) ToItemUpdate() model.ItemUpdate {
	return model.ItemUpdate{
		Title:         r.Title,
		Description:   r.Description,
		ImageRef:      r.ImageRef,
		StartingPrice: r.StartingPrice,
		EndTime:       r.EndTime,
	}
}
