package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teaminsight/internal/models"
	"teaminsight/internal/repository"
	"teaminsight/internal/scoring"
)

func TestRespondStoreError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"permission", &repository.StoreError{Op: repository.OpGetLatest, Kind: repository.KindPermissionDenied, Err: errors.New("x")}, http.StatusForbidden, "permission-denied"},
		{"unavailable", &repository.StoreError{Op: repository.OpSaveLatest, Kind: repository.KindUnavailable, Err: errors.New("x")}, http.StatusServiceUnavailable, "unavailable"},
		{"unknown", &repository.StoreError{Op: repository.OpSaveLatest, Kind: repository.KindUnknown, Err: errors.New("disk full")}, http.StatusInternalServerError, "unknown"},
		{"plain", errors.New("cookie too large"), http.StatusInternalServerError, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondStoreError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Error errorBody `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestIdentityFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, Identity(c).IsGuest())

	c.Set(UserContextKey, &models.User{ID: "u-1"})
	assert.Equal(t, "u-1", Identity(c).UID)
}

func TestRadarChart(t *testing.T) {
	chart := radarChart(models.AxisScores{Energy: 10, Thinking: 20, Planning: 30, Vision: 40})
	data, err := json.Marshal(chart)
	require.NoError(t, err)

	var decoded struct {
		Radar struct {
			Indicator []struct {
				Name string  `json:"name"`
				Max  float64 `json:"max"`
			} `json:"indicator"`
		} `json:"radar"`
		Series []struct {
			Type string `json:"type"`
			Data []struct {
				Value []int `json:"value"`
			} `json:"data"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Radar.Indicator, 4)
	assert.Equal(t, scoring.AxisInfo(models.AxisEnergy).Name, decoded.Radar.Indicator[0].Name)
	assert.Equal(t, 100.0, decoded.Radar.Indicator[0].Max)
	require.Len(t, decoded.Series, 1)
	assert.Equal(t, "radar", decoded.Series[0].Type)
	assert.Equal(t, []int{10, 20, 30, 40}, decoded.Series[0].Data[0].Value)
}

func TestTrendChart(t *testing.T) {
	points := scoring.TrendSeries([]models.AssessmentHistory{
		{ID: "a", AxisScores: models.AxisScores{Energy: 10}, AnsweredAt: models.Timestamp{}},
		{ID: "b", AxisScores: models.AxisScores{Energy: 20}, AnsweredAt: models.Timestamp{}},
	}, time.UTC)
	data, err := json.Marshal(trendChart(points))
	require.NoError(t, err)

	var decoded struct {
		XAxis []struct {
			Data []string `json:"data"`
		} `json:"xAxis"`
		Series []struct {
			Name string `json:"name"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotEmpty(t, decoded.XAxis)
	assert.Equal(t, []string{"#1", "#2"}, decoded.XAxis[0].Data)
	assert.Len(t, decoded.Series, 4)
}
