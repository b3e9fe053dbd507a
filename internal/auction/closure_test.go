package auction

import (
	"testing"
	"time"

	"auction-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

func TestIsEndedAndStatusAt(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0)

	require.False(t, IsEnded(item, t0.Add(-time.Nanosecond)))
	require.Equal(t, models.StatusOpen, StatusAt(item, t0.Add(-time.Nanosecond)))

	require.True(t, IsEnded(item, t0), "the end instant itself is closed")
	require.Equal(t, models.StatusEnded, StatusAt(item, t0))

	require.True(t, IsEnded(item, t0.Add(24*time.Hour)))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0)
	bids := []models.Bid{
		testBid("b1", "alice", "1500", t0.Add(-time.Hour)),
		testBid("b2", "bob", "2500", t0.Add(-time.Minute)),
	}

	open := Resolve(item, bids, t0.Add(-time.Second))
	require.Equal(t, models.StatusOpen, open.Status)
	require.False(t, open.Ended)
	require.True(t, open.CurrentPrice.Equal(dec("2500")))
	require.Equal(t, 2, open.BidCount)
	require.NotNil(t, open.Leader)
	require.Equal(t, "bob", open.Leader.BidderID)
	require.Nil(t, open.Winner)

	ended := Resolve(item, bids, t0)
	require.True(t, ended.Ended)
	require.NotNil(t, ended.Winner)
	require.Equal(t, "b2", ended.Winner.BidID)

	empty := Resolve(item, nil, t0)
	require.True(t, empty.CurrentPrice.Equal(dec("1000")))
	require.Nil(t, empty.Winner)
}

func TestTransitions(t *testing.T) {
	t.Parallel()

	a := testItem("a", "1", t0)
	b := testItem("b", "1", t0.Add(time.Hour))
	tr := NewTransitions()

	require.Empty(t, tr.Observe([]models.Item{a, b}, t0.Add(-time.Second)))

	ended := tr.Observe([]models.Item{a, b}, t0)
	require.Len(t, ended, 1)
	require.Equal(t, "a", ended[0].ItemID)

	require.Empty(t, tr.Observe([]models.Item{a, b}, t0.Add(time.Minute)), "each closure is reported once")

	ended = tr.Observe([]models.Item{a, b}, t0.Add(2*time.Hour))
	require.Len(t, ended, 1)
	require.Equal(t, "b", ended[0].ItemID)

	// a disappears and is forgotten
	require.Empty(t, tr.Observe([]models.Item{b}, t0.Add(3*time.Hour)))
	require.Len(t, tr.announced, 1)
}
