package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bidding "auction-bidding/internal/biddingService"
	"auction-bidding/internal/identity"
	model "auction-bidding/internal/models"
	"auction-bidding/internal/repository"
	"auction-bidding/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

// manualClock lets a test move the service's notion of now
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// testEnv is a fully wired server backed by the in-memory repository and real JWT tokens
type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	jwt    *identity.JWTResolver
	clock  *manualClock
}

// SetupTestEnv initializes the router with in-memory repository for integration testing and seeds items.
func SetupTestEnv(t *testing.T, items ...model.Item) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	for _, item := range items {
		require.NoError(t, repo.CreateItem(context.Background(), item))
	}
	clock := &manualClock{now: t0}
	tokens := identity.NewJWTResolver("integration-secret", "auction-bidding", 24*time.Hour)
	service := bidding.NewBiddingService(repo, tokens, bidding.WithClock(clock))

	return &testEnv{
		router: server.SetupRouter(service, nil),
		repo:   repo,
		jwt:    tokens,
		clock:  clock,
	}
}

// Token issues a bearer token for bidderID
func (e *testEnv) Token(t *testing.T, bidderID string) string {
	t.Helper()
	token, err := e.jwt.IssueToken(model.BidderIdentity{BidderID: bidderID, DisplayName: "name " + bidderID})
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses the response envelope
func (e *testEnv) ExecuteRequestAndParse(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// seedItem builds an item that is open at t0
func seedItem(id, seller, start string, end time.Time) model.Item {
	return model.Item{
		ItemID:        id,
		Title:         "title " + id,
		Description:   "description " + id,
		StartingPrice: mustDecimal(start),
		CreatedAt:     t0.Add(-time.Hour),
		EndTime:       end,
		SellerID:      seller,
	}
}
