package handler

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_service.go -package=handler

import (
	"context"
	"net/http"

	model "auction-bidding/internal/models"
	"auction-bidding/services/bidding/helpers"
	"auction-bidding/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, itemID, bidderToken string, amount decimal.Decimal) (model.Bid, error)
	GetBidsForItem(ctx context.Context, itemID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
	GetAuctionState(ctx context.Context, itemID string) (model.AuctionState, error)
	GetLeadingItems(ctx context.Context, bidderID string) ([]model.ItemSummary, error)
	GetMyPage(ctx context.Context, token string) (model.MyPage, error)
	CreateItem(ctx context.Context, sellerToken string, in model.NewItem) (model.Item, error)
	UpdateItem(ctx context.Context, ownerToken, itemID string, upd model.ItemUpdate) (model.Item, error)
	DeleteItem(ctx context.Context, ownerToken, itemID string) error
	ListItems(ctx context.Context) ([]model.ItemSummary, error)
	GetItemDetails(ctx context.Context, itemID string) (model.ItemDetails, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.ItemID, helpers.BearerToken(c), req.Amount)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err, map[string]any{
			"item_id": req.ItemID,
			"amount":  req.Amount.String(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":    bid.BidID,
		"item_id":   bid.ItemID,
		"bidder_id": bid.BidderID,
		"amount":    bid.Amount.String(),
	})
}

// GetBidsByItemHandler handles GET /items/:item_id/bids
func (h *BiddingHandler) GetBidsByItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	bids, err := h.service.GetBidsForItem(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetBidsByItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByItemHandler", "bids retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(bids),
	})
}

// GetWinningBidHandler handles GET /items/:item_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	bid, err := h.service.GetWinningBid(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":    bid.BidID,
		"item_id":   bid.ItemID,
		"bidder_id": bid.BidderID,
		"amount":    bid.Amount.String(),
	})
}

// GetAuctionStateHandler handles GET /items/:item_id/state
func (h *BiddingHandler) GetAuctionStateHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	state, err := h.service.GetAuctionState(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionStateHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, state, "auction state retrieved successfully")
}

// GetLeadingItemsHandler handles GET /bidders/:bidder_id/leading
func (h *BiddingHandler) GetLeadingItemsHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")

	items, err := h.service.GetLeadingItems(c.Request.Context(), bidderID)
	if err != nil {
		helpers.RespondError(c, "GetLeadingItemsHandler", err, map[string]any{"bidder_id": bidderID})
		return
	}
	if items == nil {
		items = []model.ItemSummary{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
	helpers.LogSuccess("GetLeadingItemsHandler", "items retrieved successfully", map[string]any{
		"bidder_id":   bidderID,
		"items_count": len(items),
	})
}

// GetMyPageHandler handles GET /me
func (h *BiddingHandler) GetMyPageHandler(c *gin.Context) {
	page, err := h.service.GetMyPage(c.Request.Context(), helpers.BearerToken(c))
	if err != nil {
		helpers.RespondError(c, "GetMyPageHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, page, "my page retrieved successfully")
}
