package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	model "auction-bidding/internal/models"

	"github.com/stretchr/testify/require"
)

func openTempSQLite(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := NewSQLiteRepo(filepath.Join(t.TempDir(), "auction.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepo_Contract(t *testing.T) {
	t.Parallel()
	runAuctionDBContract(t, func(t *testing.T) AuctionDB {
		return openTempSQLite(t)
	})
}

func TestSQLiteRepo_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "auction.db")

	repo, err := NewSQLiteRepo(path)
	require.NoError(t, err)
	require.NoError(t, repo.CreateItem(ctx, newItem("item1", "s", 1000, base)))
	b1 := newBid("b1", "item1", "alice", "1500", base.Add(time.Second))
	b2 := newBid("b2", "item1", "bob", "1500.01", base.Add(2*time.Second))
	require.NoError(t, repo.AppendBid(ctx, b1, 0))
	require.NoError(t, repo.AppendBid(ctx, b2, 1))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepo(path)
	require.NoError(t, err)
	defer reopened.Close()

	bids, err := reopened.LoadBids(ctx, "item1")
	require.NoError(t, err)
	requireSameBids(t, []model.Bid{b1, b2}, bids)
	require.Equal(t, "1500.01", bids[1].Amount.String())
	require.True(t, bids[1].CreatedAt.Equal(b2.CreatedAt), "nanosecond timestamps round-trip")
}

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "auction.db", want: "file:auction.db?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"},
		{in: "file:auction.db?cache=shared", want: "file:auction.db?cache=shared&_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, sqliteDSN(tc.in))
	}
}
