package auction

import (
	"time"

	"auction-bidding/internal/models"

	"github.com/shopspring/decimal"
)

var t0 = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testItem(id, start string, end time.Time) models.Item {
	return models.Item{
		ItemID:        id,
		Title:         "item " + id,
		StartingPrice: dec(start),
		CreatedAt:     t0.Add(-time.Hour),
		EndTime:       end,
		SellerID:      "seller",
	}
}

func testBid(id, bidder, amount string, at time.Time) models.Bid {
	return models.Bid{
		BidID:     id,
		ItemID:    "item1",
		BidderID:  bidder,
		Amount:    dec(amount),
		CreatedAt: at,
	}
}
