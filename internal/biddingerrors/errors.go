package biddingerrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository-level errors
var (
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrNoBids              = errors.New("no bids found for item")
	ErrConcurrencyConflict = errors.New("concurrent append conflict")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// Identity errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
)

// business logic errors
var (
	ErrInvalidBid             = errors.New("invalid bid")
	ErrBidTooLow              = errors.New("bid amount too low")
	ErrAuctionEnded           = errors.New("auction has ended")
	ErrAuctionOpen            = errors.New("auction is still open")
	ErrUnknownBidder          = errors.New("unknown bidder")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrInvalidItem            = errors.New("invalid item")
	ErrNotItemOwner           = errors.New("not the item owner")
	ErrItemHasBids            = errors.New("item already has bids")
)

// BidTooLowError reports the price a rejected bid had to exceed
type BidTooLowError struct {
	CurrentPrice decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s: current price is %s", ErrBidTooLow, e.CurrentPrice.String())
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}

// CurrentPriceOf extracts the current price carried by a BidTooLowError anywhere in err's chain
func CurrentPriceOf(err error) (decimal.Decimal, bool) {
	var tooLow *BidTooLowError
	if errors.As(err, &tooLow) {
		return tooLow.CurrentPrice, true
	}
	return decimal.Decimal{}, false
}
