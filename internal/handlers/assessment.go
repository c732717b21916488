package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teaminsight/internal/assessment"
	"teaminsight/internal/metrics"
	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/repository"
)

// assessmentKeySessionKey names the browser's in-progress assessment.
const assessmentKeySessionKey = "assessment_key"

type AssessmentHandler struct {
	log      *zap.Logger
	bank     *models.QuestionBank
	registry *assessment.Registry
	store    persistence.ScoreStore
	metrics  *metrics.Metrics
}

func NewAssessmentHandler(log *zap.Logger, bank *models.QuestionBank, registry *assessment.Registry, store persistence.ScoreStore, m *metrics.Metrics) *AssessmentHandler {
	return &AssessmentHandler{log: log, bank: bank, registry: registry, store: store, metrics: m}
}

type answerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      *int   `json:"value" binding:"required"`
}

type finishRequest struct {
	Navigate *bool `json:"navigate"`
}

type stepResponse struct {
	assessment.Outcome
	NavigateAfterMs int64            `json:"navigate_after_ms,omitempty"`
	State           assessment.State `json:"state"`
}

// Questions lists the question bank.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.bank.Questions, "total": h.bank.Len()})
}

// State returns the caller's in-progress assessment.
func (h *AssessmentHandler) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.State())
}

func (h *AssessmentHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "question_id and value are required", "")
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.SetAnswer(req.QuestionID, *req.Value); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.State())
}

func (h *AssessmentHandler) Previous(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Previous(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// Next advances, finishing the assessment on the last question.
func (h *AssessmentHandler) Next(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	router := storeRouter(c, h.store)
	out, err := s.Next(c.Request.Context(), router)
	h.respondStep(c, s, router, out, err)
}

// Finish saves the current answers. The body may set navigate to false to
// save without leaving the question view.
func (h *AssessmentHandler) Finish(c *gin.Context) {
	var req finishRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "invalid request body", "")
			return
		}
	}
	navigate := req.Navigate == nil || *req.Navigate

	s, ok := h.session(c)
	if !ok {
		return
	}
	router := storeRouter(c, h.store)
	out, err := s.Finish(c.Request.Context(), router, navigate)
	h.respondStep(c, s, router, out, err)
}

// Reset starts the assessment over from the first question.
func (h *AssessmentHandler) Reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Reset(); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.State())
}

func (h *AssessmentHandler) DismissNotification(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Dismiss()
	c.JSON(http.StatusOK, s.State())
}

func (h *AssessmentHandler) respondStep(c *gin.Context, s *assessment.Session, router persistence.Router, out assessment.Outcome, err error) {
	if err != nil {
		if errors.Is(err, assessment.ErrSaveInProgress) {
			h.respondSessionError(c, err)
			return
		}
		kind := repository.KindOf(err)
		h.metrics.RecordSaveFailure(string(kind))
		h.log.Error("Failed to save assessment result",
			zap.String("mode", router.Mode().String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		respondStoreError(c, err)
		return
	}
	if out.Finished {
		h.metrics.RecordCompletion(router.Mode().String())
		h.log.Info("Assessment completed", zap.String("mode", router.Mode().String()))
	}
	c.JSON(http.StatusOK, stepResponse{
		Outcome:         out,
		NavigateAfterMs: out.NavigateAfter.Milliseconds(),
		State:           s.State(),
	})
}

func (h *AssessmentHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrUnknownQuestion):
		respondError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, assessment.ErrSaveInProgress):
		respondError(c, http.StatusConflict, err.Error(), "")
	default:
		respondError(c, http.StatusInternalServerError, err.Error(), "")
	}
}

// session finds the browser's assessment, issuing a key on first use.
func (h *AssessmentHandler) session(c *gin.Context) (*assessment.Session, bool) {
	sess := sessions.Default(c)
	key, _ := sess.Get(assessmentKeySessionKey).(string)
	if key == "" {
		key = uuid.NewString()
		sess.Set(assessmentKeySessionKey, key)
		if err := sess.Save(); err != nil {
			h.log.Error("Failed to save session", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "failed to save session", "")
			return nil, false
		}
	}
	return h.registry.Get(key), true
}
