package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/repository"
	"teaminsight/internal/scoring"
)

// dashboardRecent is how many history entries the dashboard shows.
const dashboardRecent = 5

// historyCounter is implemented by stores that can count without loading
// every entry.
type historyCounter interface {
	CountHistory(ctx context.Context, uid string) (int64, error)
}

type ResultsHandler struct {
	log          *zap.Logger
	store        persistence.ScoreStore
	historyLimit func() int
	location     func() *time.Location
}

// NewResultsHandler builds the read-side handler. location picks the zone
// used for chart dates; nil means UTC.
func NewResultsHandler(log *zap.Logger, store persistence.ScoreStore, historyLimit func() int, location func() *time.Location) *ResultsHandler {
	if historyLimit == nil {
		historyLimit = func() int { return repository.DefaultHistoryLimit }
	}
	if location == nil {
		location = func() *time.Location { return time.UTC }
	}
	return &ResultsHandler{log: log, store: store, historyLimit: historyLimit, location: location}
}

// Latest returns the caller's most recent scores, or null before the first
// completion.
func (h *ResultsHandler) Latest(c *gin.Context) {
	router := storeRouter(c, h.store)
	scores, err := router.Latest(c.Request.Context())
	if err != nil {
		h.logReadFailure("latest", router, err)
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores, "mode": router.Mode().String()})
}

// Results renders the full report and radar chart for the latest scores.
func (h *ResultsHandler) Results(c *gin.Context) {
	router := storeRouter(c, h.store)
	scores, err := router.Latest(c.Request.Context())
	if err != nil {
		h.logReadFailure("results", router, err)
		respondStoreError(c, err)
		return
	}
	if scores == nil {
		c.JSON(http.StatusOK, gin.H{"scores": nil, "report": nil, "chart": nil, "mode": router.Mode().String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scores": scores,
		"report": scoring.Report(*scores),
		"chart":  radarChart(*scores),
		"mode":   router.Mode().String(),
	})
}

// History lists past results newest first, with the change against the
// previous result and the trend chart. Guests always get an empty list.
// count is the caller's total number of results, which may exceed the
// number of entries returned.
func (h *ResultsHandler) History(c *gin.Context) {
	router := storeRouter(c, h.store)

	var (
		history []models.AssessmentHistory
		count   int64 = -1
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		history, err = router.History(ctx, h.historyLimit())
		return err
	})
	h.countHistory(ctx, g, router, &count)
	if err := g.Wait(); err != nil {
		h.logReadFailure("history", router, err)
		respondStoreError(c, err)
		return
	}
	if count < 0 {
		count = int64(len(history))
	}

	body := gin.H{
		"history": scoring.NewestFirst(history),
		"count":   count,
		"changes": nil,
		"chart":   nil,
		"mode":    router.Mode().String(),
	}
	changes, err := scoring.Changes(history)
	switch {
	case err == nil:
		body["changes"] = changes
	case !errors.Is(err, scoring.ErrNotEnoughHistory):
		respondError(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if len(history) > 0 {
		body["chart"] = trendChart(scoring.TrendSeries(history, h.location()))
	}
	c.JSON(http.StatusOK, body)
}

type dashboardResponse struct {
	Mode         string                     `json:"mode"`
	Scores       *models.AxisScores         `json:"scores"`
	Summary      string                     `json:"summary,omitempty"`
	HistoryCount int                        `json:"history_count"`
	Recent       []models.AssessmentHistory `json:"recent"`
}

// Dashboard reads the latest scores and the history concurrently.
func (h *ResultsHandler) Dashboard(c *gin.Context) {
	router := storeRouter(c, h.store)

	var (
		scores  *models.AxisScores
		history []models.AssessmentHistory
		count   int64 = -1
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		scores, err = router.Latest(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = router.History(ctx, h.historyLimit())
		return err
	})
	h.countHistory(ctx, g, router, &count)
	if err := g.Wait(); err != nil {
		h.logReadFailure("dashboard", router, err)
		respondStoreError(c, err)
		return
	}

	resp := dashboardResponse{
		Mode:         router.Mode().String(),
		Scores:       scores,
		HistoryCount: len(history),
		Recent:       scoring.NewestFirst(history),
	}
	if count >= 0 {
		resp.HistoryCount = int(count)
	}
	if len(resp.Recent) > dashboardRecent {
		resp.Recent = resp.Recent[:dashboardRecent]
	}
	if scores != nil {
		resp.Summary = scoring.OverallSummary(*scores)
	}
	c.JSON(http.StatusOK, resp)
}

// countHistory schedules a full count on g when the store supports it. count
// is left untouched otherwise.
func (h *ResultsHandler) countHistory(ctx context.Context, g *errgroup.Group, router persistence.Router, count *int64) {
	counter, ok := h.store.(historyCounter)
	if !ok || router.Mode() != persistence.ModeAuthenticated {
		return
	}
	g.Go(func() error {
		n, err := counter.CountHistory(ctx, router.UID())
		if err != nil {
			return err
		}
		*count = n
		return nil
	})
}

// Compare is a placeholder for the team comparison view.
func (h *ResultsHandler) Compare(c *gin.Context) {
	respondError(c, http.StatusNotImplemented, "チーム比較機能は現在準備中です", "")
}

func (h *ResultsHandler) logReadFailure(what string, router persistence.Router, err error) {
	h.log.Error("Failed to read scores",
		zap.String("view", what),
		zap.String("mode", router.Mode().String()),
		zap.String("kind", string(repository.KindOf(err))),
		zap.Error(err),
	)
}
