package perftests

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"auction-bidding/internal/auction"
	bidding "auction-bidding/internal/biddingService"
	"auction-bidding/internal/identity"
	model "auction-bidding/internal/models"
	"auction-bidding/internal/repository"
	"auction-bidding/utils"

	"github.com/shopspring/decimal"
)

var benchStart = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	utils.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

// benchEnv holds a service over numItems open items and numBidders registered tokens
type benchEnv struct {
	repo *repository.MemoryRepo
	svc  *bidding.BiddingService
}

func newBenchEnv(tb testing.TB, numItems, numBidders int, opts ...bidding.Option) *benchEnv {
	tb.Helper()
	repo := repository.NewMemoryRepo()
	for i := 0; i < numItems; i++ {
		err := repo.CreateItem(context.Background(), model.Item{
			ItemID:        itemID(i),
			Title:         fmt.Sprintf("title_%d", i),
			Description:   "Load test item",
			StartingPrice: decimal.NewFromInt(100),
			CreatedAt:     benchStart.Add(-time.Hour),
			EndTime:       benchStart.Add(time.Hour),
			SellerID:      "seller",
		})
		if err != nil {
			tb.Fatalf("failed to seed item: %v", err)
		}
	}

	tokens := identity.NewStatic(nil)
	for i := 0; i < numBidders; i++ {
		tokens.Add(token(i), model.BidderIdentity{BidderID: fmt.Sprintf("user_%d", i), DisplayName: fmt.Sprintf("User %d", i)})
	}

	opts = append([]bidding.Option{bidding.WithClock(auction.ClockFunc(func() time.Time { return benchStart }))}, opts...)
	return &benchEnv{
		repo: repo,
		svc:  bidding.NewBiddingService(repo, tokens, opts...),
	}
}

func itemID(i int) string { return fmt.Sprintf("item_%d", i) }

func token(i int) string { return fmt.Sprintf("token_%d", i) }
