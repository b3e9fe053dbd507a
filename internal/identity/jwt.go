package identity

import (
	"context"
	"fmt"
	"time"

	"auction-bidding/internal/biddingerrors"
	"auction-bidding/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a bidder token
type Claims struct {
	BidderID    string `json:"bidder_id"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// JWTResolver issues and resolves HS256 bidder tokens
type JWTResolver struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTResolver(secret, issuer string, ttl time.Duration) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens
func (r *JWTResolver) WithClock(now func() time.Time) *JWTResolver {
	r.now = now
	return r
}

// IssueToken signs a token for the given identity
func (r *JWTResolver) IssueToken(id models.BidderIdentity) (string, error) {
	if id.BidderID == "" {
		return "", fmt.Errorf("identity: issue token: empty bidder ID")
	}
	now := r.now()
	claims := &Claims{
		BidderID:    id.BidderID,
		DisplayName: id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.BidderID,
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    r.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}

// ResolveBidder validates a token and returns the bidder it names.
// Any invalid, expired or foreign token yields ErrUnauthenticated.
func (r *JWTResolver) ResolveBidder(_ context.Context, tokenString string) (models.BidderIdentity, error) {
	if tokenString == "" {
		return models.BidderIdentity{}, fmt.Errorf("identity: %w - missing token", biddingerrors.ErrUnauthenticated)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(r.issuer),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return models.BidderIdentity{}, fmt.Errorf("identity: %w - %v", biddingerrors.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.BidderID == "" {
		return models.BidderIdentity{}, fmt.Errorf("identity: %w - invalid claims", biddingerrors.ErrUnauthenticated)
	}
	return models.BidderIdentity{BidderID: claims.BidderID, DisplayName: claims.DisplayName}, nil
}
