package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-bidding/internal/biddingerrors"
	model "auction-bidding/internal/models"

	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	item_id        TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	starting_price TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	end_time       INTEGER NOT NULL,
	seller_id      TEXT NOT NULL,
	image_ref      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS bids (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	bid_id      TEXT NOT NULL UNIQUE,
	item_id     TEXT NOT NULL REFERENCES items(item_id) ON DELETE CASCADE,
	bidder_id   TEXT NOT NULL,
	bidder_name TEXT NOT NULL,
	amount      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bids_item ON bids(item_id, seq);
CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids(bidder_id);
CREATE INDEX IF NOT EXISTS idx_items_seller ON items(seller_id);
`

// SQLiteRepo is a durable AuctionDB backed by a sqlite database file
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo opens (or creates) the database at path and bootstraps the schema.
// Writes use immediate transactions so appends for an item are serialized across connections.
func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w: %v", biddingerrors.ErrStorageUnavailable, err)
	}
	// a single connection keeps ":memory:" databases shared and writers queued
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: create schema: %w: %v", biddingerrors.ErrStorageUnavailable, err)
	}
	return &SQLiteRepo{db: db}, nil
}

func sqliteDSN(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"
}

// Close closes the database connection
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// CreateItem stores a new item
func (r *SQLiteRepo) CreateItem(ctx context.Context, item model.Item) error {
	if item.ItemID == "" {
		return fmt.Errorf("repository: create item: %w - empty item ID", biddingerrors.ErrInvalidItem)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (item_id, title, description, starting_price, created_at, end_time, seller_id, image_ref)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.Title, item.Description, item.StartingPrice.String(),
		item.CreatedAt.UnixNano(), item.EndTime.UnixNano(), item.SellerID, item.ImageRef,
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("repository: create item %s: %w - duplicate ID", item.ItemID, biddingerrors.ErrInvalidItem)
		}
		return storageErr("create item "+item.ItemID, err)
	}
	return nil
}

// LoadItem returns one item
func (r *SQLiteRepo) LoadItem(ctx context.Context, itemID string) (model.Item, error) {
	row := r.db.QueryRowContext(ctx, selectItem+` WHERE item_id = ?`, itemID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("repository: load item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Item{}, storageErr("load item "+itemID, err)
	}
	return item, nil
}

// ListItems returns all items, newest first
func (r *SQLiteRepo) ListItems(ctx context.Context) ([]model.Item, error) {
	return r.queryItems(ctx, "list items", selectItem+` ORDER BY created_at DESC, item_id ASC`)
}

// ListItemsBySeller returns the seller's items, newest first
func (r *SQLiteRepo) ListItemsBySeller(ctx context.Context, sellerID string) ([]model.Item, error) {
	return r.queryItems(ctx, "list items for seller "+sellerID,
		selectItem+` WHERE seller_id = ? ORDER BY created_at DESC, item_id ASC`, sellerID)
}

// UpdateItem replaces the stored fields of an item
func (r *SQLiteRepo) UpdateItem(ctx context.Context, item model.Item) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, starting_price = ?, end_time = ?, image_ref = ?
		 WHERE item_id = ?`,
		item.Title, item.Description, item.StartingPrice.String(), item.EndTime.UnixNano(), item.ImageRef, item.ItemID,
	)
	if err != nil {
		return storageErr("update item "+item.ItemID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("repository: update item %s: %w", item.ItemID, biddingerrors.ErrAuctionNotFound)
	}
	return nil
}

// DeleteItem removes an item together with its bids
func (r *SQLiteRepo) DeleteItem(ctx context.Context, itemID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("delete item "+itemID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bids WHERE item_id = ?`, itemID); err != nil {
		return storageErr("delete bids of item "+itemID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, itemID)
	if err != nil {
		return storageErr("delete item "+itemID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("repository: delete item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("delete item "+itemID, err)
	}
	return nil
}

// LoadBids returns all bids for an item in append order
func (r *SQLiteRepo) LoadBids(ctx context.Context, itemID string) ([]model.Bid, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE item_id = ?`, itemID).Scan(&exists); err != nil {
		return nil, storageErr("load bids for item "+itemID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("repository: load bids for item %s: %w", itemID, biddingerrors.ErrAuctionNotFound)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT bid_id, item_id, bidder_id, bidder_name, amount, created_at
		 FROM bids WHERE item_id = ? ORDER BY seq ASC`, itemID)
	if err != nil {
		return nil, storageErr("load bids for item "+itemID, err)
	}
	defer rows.Close()

	bids := []model.Bid{}
	for rows.Next() {
		var b model.Bid
		var createdAt int64
		if err := rows.Scan(&b.BidID, &b.ItemID, &b.BidderID, &b.BidderName, &b.Amount, &createdAt); err != nil {
			return nil, storageErr("scan bid for item "+itemID, err)
		}
		b.CreatedAt = time.Unix(0, createdAt).UTC()
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("load bids for item "+itemID, err)
	}
	return bids, nil
}

// AppendBid records a bid if the item still has exactly expectedCount bids
func (r *SQLiteRepo) AppendBid(ctx context.Context, bid model.Bid, expectedCount int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("append bid for item "+bid.ItemID, err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE item_id = ?`, bid.ItemID).Scan(&exists); err != nil {
		return storageErr("append bid for item "+bid.ItemID, err)
	}
	if exists == 0 {
		return fmt.Errorf("repository: append bid for item %s: %w", bid.ItemID, biddingerrors.ErrAuctionNotFound)
	}

	var got int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bids WHERE item_id = ?`, bid.ItemID).Scan(&got); err != nil {
		return storageErr("append bid for item "+bid.ItemID, err)
	}
	if got != expectedCount {
		return fmt.Errorf("repository: append bid for item %s: %w - expected %d bids, found %d",
			bid.ItemID, biddingerrors.ErrConcurrencyConflict, expectedCount, got)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (bid_id, item_id, bidder_id, bidder_name, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		bid.BidID, bid.ItemID, bid.BidderID, bid.BidderName, bid.Amount.String(), bid.CreatedAt.UnixNano(),
	)
	if err != nil {
		return storageErr("append bid for item "+bid.ItemID, err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("append bid for item "+bid.ItemID, err)
	}
	return nil
}

// ItemIDsByBidder returns the distinct items a bidder has bid on, in first-bid order
func (r *SQLiteRepo) ItemIDsByBidder(ctx context.Context, bidderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM bids WHERE bidder_id = ? GROUP BY item_id ORDER BY MIN(seq) ASC`, bidderID)
	if err != nil {
		return nil, storageErr("list items for bidder "+bidderID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan item for bidder "+bidderID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list items for bidder "+bidderID, err)
	}
	return ids, nil
}

const selectItem = `SELECT item_id, title, description, starting_price, created_at, end_time, seller_id, image_ref FROM items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var createdAt, endTime int64
	err := row.Scan(&item.ItemID, &item.Title, &item.Description, &item.StartingPrice,
		&createdAt, &endTime, &item.SellerID, &item.ImageRef)
	if err != nil {
		return model.Item{}, err
	}
	item.CreatedAt = time.Unix(0, createdAt).UTC()
	item.EndTime = time.Unix(0, endTime).UTC()
	return item, nil
}

func (r *SQLiteRepo) queryItems(ctx context.Context, op, query string, args ...any) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return items, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("repository: %s: %w: %v", op, biddingerrors.ErrStorageUnavailable, err)
}

func isConstraint(err error) bool {
	var sqErr sqlite3.Error
	return errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint
}
