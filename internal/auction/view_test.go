package auction

import (
	"fmt"
	"testing"
	"time"

	"auction-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

func TestViewApplyMatchesNewView(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0.Add(time.Hour))
	amounts := []string{"1500", "1200", "2500", "2500", "2000", "3000.5", "3000.5"}

	var history []models.Bid
	v := NewView(item, nil)
	for i, amount := range amounts {
		bid := testBid(fmt.Sprintf("b%d", i), fmt.Sprintf("bidder%d", i%3), amount, t0.Add(time.Duration(i)*time.Second))
		history = append(history, bid)
		v = v.Apply(bid)

		want := NewView(item, history)
		require.Equal(t, want.Count, v.Count)
		require.True(t, want.Price.Equal(v.Price), "step %d: price %s != %s", i, v.Price, want.Price)
		require.Equal(t, want.Leader.BidID, v.Leader.BidID, "step %d", i)
		require.Equal(t, want.LastBidAt, v.LastBidAt)
	}
	require.Equal(t, "b6", v.Leader.BidID)
}

func TestViewApplyDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0.Add(time.Hour))
	base := NewView(item, []models.Bid{testBid("b1", "alice", "1500", t0)})
	next := base.Apply(testBid("b2", "bob", "2000", t0.Add(time.Second)))

	require.Equal(t, 1, base.Count)
	require.Equal(t, "b1", base.Leader.BidID)
	require.Equal(t, 2, next.Count)
	require.Equal(t, "b2", next.Leader.BidID)
}

func TestViewWithItem(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0.Add(time.Hour))
	empty := NewView(item, nil)

	repriced := item
	repriced.StartingPrice = dec("1200")
	require.True(t, empty.WithItem(repriced).Price.Equal(dec("1200")))

	bid := NewView(item, []models.Bid{testBid("b1", "alice", "1500", t0)})
	renamed := item
	renamed.Title = "renamed"
	got := bid.WithItem(renamed)
	require.Equal(t, "renamed", got.Item.Title)
	require.True(t, got.Price.Equal(dec("1500")))
}

func TestViewLeadByAndWonBy(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0)
	v := NewView(item, []models.Bid{
		testBid("b1", "alice", "2000", t0.Add(-time.Hour)),
		testBid("b2", "bob", "2500", t0.Add(-time.Minute)),
	})

	require.True(t, v.LeadBy("bob"))
	require.False(t, v.LeadBy("alice"))
	require.False(t, v.WonBy("bob", t0.Add(-time.Second)), "open items have no winner")
	require.True(t, v.WonBy("bob", t0))
	require.False(t, NewView(item, nil).LeadBy("bob"))

	state := v.State(t0)
	state.Winner.BidderID = "mallory"
	require.Equal(t, "bob", v.Leader.BidderID, "state copies never alias the view")
}
