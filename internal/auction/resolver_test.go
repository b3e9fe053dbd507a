package auction

import (
	"testing"
	"time"

	"auction-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCurrentPrice(t *testing.T) {
	t.Parallel()

	item := testItem("item1", "1000", t0.Add(time.Hour))

	tests := []struct {
		name     string
		bids     []models.Bid
		expected string
	}{
		{name: "no_bids_returns_starting_price", bids: nil, expected: "1000"},
		{
			name:     "single_bid",
			bids:     []models.Bid{testBid("b1", "alice", "1500", t0)},
			expected: "1500",
		},
		{
			name: "maximum_regardless_of_order",
			bids: []models.Bid{
				testBid("b1", "alice", "1500", t0),
				testBid("b2", "bob", "2500", t0.Add(time.Second)),
				testBid("b3", "carol", "2000", t0.Add(2*time.Second)),
			},
			expected: "2500",
		},
		{
			name:     "fractional_amounts",
			bids:     []models.Bid{testBid("b1", "alice", "1000.01", t0), testBid("b2", "bob", "1000.10", t0.Add(time.Second))},
			expected: "1000.1",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, CurrentPrice(item, tc.bids).Equal(dec(tc.expected)),
				"got %s", CurrentPrice(item, tc.bids))
		})
	}
}

func TestLeader(t *testing.T) {
	t.Parallel()

	t.Run("empty_history", func(t *testing.T) {
		t.Parallel()
		_, ok := Leader(nil)
		require.False(t, ok)
	})

	t.Run("highest_amount_wins", func(t *testing.T) {
		t.Parallel()
		leader, ok := Leader([]models.Bid{
			testBid("b1", "alice", "2000", t0),
			testBid("b2", "bob", "2500", t0.Add(time.Second)),
			testBid("b3", "carol", "2100", t0.Add(2*time.Second)),
		})
		require.True(t, ok)
		require.Equal(t, "b2", leader.BidID)
	})

	t.Run("equal_amount_latest_wins", func(t *testing.T) {
		t.Parallel()
		leader, ok := Leader([]models.Bid{
			testBid("b1", "alice", "2000", t0.Add(time.Second)),
			testBid("b2", "bob", "2000", t0),
		})
		require.True(t, ok)
		require.Equal(t, "b1", leader.BidID)
	})

	t.Run("equal_amount_and_time_later_position_wins", func(t *testing.T) {
		t.Parallel()
		leader, ok := Leader([]models.Bid{
			testBid("b1", "alice", "2000", t0),
			testBid("b2", "bob", "2000", t0),
		})
		require.True(t, ok)
		require.Equal(t, "b2", leader.BidID)
	})
}

func TestWinner(t *testing.T) {
	t.Parallel()

	end := t0
	item := testItem("item1", "1000", end)
	bids := []models.Bid{
		testBid("b1", "alice", "2000", end.Add(-2*time.Minute)),
		testBid("b2", "bob", "2500", end.Add(-time.Minute)),
	}

	tests := []struct {
		name    string
		now     time.Time
		bids    []models.Bid
		wantOK  bool
		wantBid string
	}{
		{name: "before_end_has_no_winner", now: end.Add(-time.Nanosecond), bids: bids},
		{name: "at_end_instant_winner_is_leader", now: end, bids: bids, wantOK: true, wantBid: "b2"},
		{name: "after_end", now: end.Add(time.Hour), bids: bids, wantOK: true, wantBid: "b2"},
		{name: "ended_without_bids", now: end.Add(time.Hour), bids: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			winner, ok := Winner(item, tc.bids, tc.now)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				require.Equal(t, tc.wantBid, winner.BidID)
			}
		})
	}
}
