package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	model "auction-bidding/internal/models"
	"auction-bidding/internal/notify"
	handler "auction-bidding/services/bidding/handler"
	"auction-bidding/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, hub *notify.Hub) (*gin.Engine, *handler.MockBiddingServiceInterface) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mockService := handler.NewMockBiddingServiceInterface(gomock.NewController(t))
	return SetupRouter(mockService, hub), mockService
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp["message"])
}

func TestSetupRouter_Routes(t *testing.T) {
	routesOf := func(r *gin.Engine) map[string]bool {
		out := map[string]bool{}
		for _, ri := range r.Routes() {
			out[ri.Method+" "+ri.Path] = true
		}
		return out
	}

	router, _ := newTestRouter(t, nil)
	routes := routesOf(router)
	for _, want := range []string{
		"GET /healthz",
		"POST /bids",
		"POST /items",
		"GET /items",
		"GET /items/:item_id",
		"PATCH /items/:item_id",
		"DELETE /items/:item_id",
		"GET /items/:item_id/state",
		"GET /items/:item_id/bids",
		"GET /items/:item_id/winning",
		"GET /bidders/:bidder_id/leading",
		"GET /me",
	} {
		require.True(t, routes[want], "missing route %s", want)
	}
	require.False(t, routes["GET /ws"], "no hub, no websocket route")

	withHub, _ := newTestRouter(t, notify.NewHub())
	require.True(t, routesOf(withHub)["GET /ws"])
}

func TestRequestLoggerMiddleware_OmitsAuthorization(t *testing.T) {
	var buf bytes.Buffer
	utils.SetLogOutput(&buf)
	t.Cleanup(func() { utils.SetLogOutput(os.Stdout) })

	router, mockService := newTestRouter(t, nil)
	mockService.EXPECT().GetMyPage(gomock.Any(), "secret-token").Return(model.MyPage{}, nil).AnyTimes()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, buf.String(), `"route":"/me"`)
	require.False(t, strings.Contains(buf.String(), "secret-token"))
}
