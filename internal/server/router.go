package server

import (
	"net/http"

	"auction-bidding/internal/notify"
	handler "auction-bidding/services/bidding/handler"
	"auction-bidding/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. hub may be nil,
// in which case GET /ws is not registered.
func SetupRouter(biddingService handler.BiddingServiceInterface, hub *notify.Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)

	router.GET("/healthz", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"ok": true}, "healthy")
	})

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.RecordBidHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", biddingHandler.CreateItemHandler)
		items.GET("", biddingHandler.ListItemsHandler)
		items.GET("/:item_id", biddingHandler.GetItemHandler)
		items.PATCH("/:item_id", biddingHandler.UpdateItemHandler)
		items.DELETE("/:item_id", biddingHandler.DeleteItemHandler)
		items.GET("/:item_id/state", biddingHandler.GetAuctionStateHandler)
		items.GET("/:item_id/bids", biddingHandler.GetBidsByItemHandler)
		items.GET("/:item_id/winning", biddingHandler.GetWinningBidHandler)
	}

	bidders := router.Group("/bidders")
	{
		bidders.GET("/:bidder_id/leading", biddingHandler.GetLeadingItemsHandler)
	}

	router.GET("/me", biddingHandler.GetMyPageHandler)

	if hub != nil {
		router.GET("/ws", hub.ServeWS)
	}

	return router
}
