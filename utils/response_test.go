package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestJSONErrorWithDetails(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	tests := []struct {
		name        string
		details     map[string]any
		wantDetails bool
	}{
		{name: "with_details", details: map[string]any{"current_price": "1500"}, wantDetails: true},
		{name: "without_details", details: nil},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			JSONErrorWithDetails(c, http.StatusConflict, errors.New("boom"), "bid amount too low", tc.details)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, float64(http.StatusConflict), body["status"])
			require.Equal(t, "bid amount too low", body["message"])
			require.Equal(t, "boom", body["error"])
			_, ok := body["details"]
			require.Equal(t, tc.wantDetails, ok)
		})
	}
}

func TestIsID(t *testing.T) {
	t.Parallel()
	require.True(t, IsID(GenerateID()))
	require.False(t, IsID("item1"))
}
