package handler

import (
	"net/http"

	model "auction-bidding/internal/models"
	"auction-bidding/services/bidding/helpers"
	"auction-bidding/utils"

	"github.com/gin-gonic/gin"
)

// CreateItemHandler handles POST /items
func (h *BiddingHandler) CreateItemHandler(c *gin.Context) {
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), helpers.BearerToken(c), req.ToNewItem())
	if err != nil {
		helpers.RespondError(c, "CreateItemHandler", err, map[string]any{"title": req.Title})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, item, "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{
		"item_id":   item.ItemID,
		"seller_id": item.SellerID,
	})
}

// ListItemsHandler handles GET /items
func (h *BiddingHandler) ListItemsHandler(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListItemsHandler", err, nil)
		return
	}
	if items == nil {
		items = []model.ItemSummary{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
}

// GetItemHandler handles GET /items/:item_id
func (h *BiddingHandler) GetItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	details, err := h.service.GetItemDetails(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	if details.Bids == nil {
		details.Bids = []model.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, details, "item retrieved successfully")
}

// UpdateItemHandler handles PATCH /items/:item_id
func (h *BiddingHandler) UpdateItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	var req helpers.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateItemHandler", err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), helpers.BearerToken(c), itemID, req.ToItemUpdate())
	if err != nil {
		helpers.RespondError(c, "UpdateItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, item, "item updated successfully")
	helpers.LogSuccess("UpdateItemHandler", "item updated successfully", map[string]any{"item_id": itemID})
}

// DeleteItemHandler handles DELETE /items/:item_id
func (h *BiddingHandler) DeleteItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")

	if err := h.service.DeleteItem(c.Request.Context(), helpers.BearerToken(c), itemID); err != nil {
		helpers.RespondError(c, "DeleteItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"item_id": itemID}, "item deleted successfully")
	helpers.LogSuccess("DeleteItemHandler", "item deleted successfully", map[string]any{"item_id": itemID})
}
