// Package assessment drives one person through the question bank and hands
// the finished answers to persistence.
package assessment

import (
	"context"
	"errors"
	"sync"
	"time"

	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/scoring"
)

var (
	// ErrSaveInProgress rejects actions while a previous save is pending.
	ErrSaveInProgress = errors.New("a save is already in progress")
	// ErrUnknownQuestion is returned for answers to ids not in the bank.
	ErrUnknownQuestion = errors.New("unknown question")
)

// Notification texts.
const (
	MessageSaved      = "診断結果を保存しました"
	MessageGuestDone  = "診断が完了しました（データは保存されていません）"
	MessageSaveFailed = "保存に失敗しました。もう一度お試しください。"
)

// DefaultNavigateDelay leaves the notification on screen before the client
// moves to the result view.
const DefaultNavigateDelay = 1500 * time.Millisecond

// ResultPath is where a finished session sends the client.
const ResultPath = "/app/result"

type Options struct {
	NavigateDelay time.Duration
}

// Outcome describes what a Next or Finish call did.
type Outcome struct {
	Finished      bool               `json:"finished"`
	Scores        *models.AxisScores `json:"scores,omitempty"`
	Saved         bool               `json:"saved"`
	Guest         bool               `json:"guest"`
	NavigateTo    string             `json:"navigate_to,omitempty"`
	NavigateAfter time.Duration      `json:"-"`
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	Index        int              `json:"index"`
	Total        int              `json:"total"`
	Question     models.Question  `json:"question"`
	Answers      models.AnswerMap `json:"answers"`
	Saving       bool             `json:"saving"`
	Notification Notification     `json:"notification"`
}

// Session is the in-progress assessment of one browser. It is safe for
// concurrent use; a second Next/Finish while a save is pending fails with
// ErrSaveInProgress instead of writing twice.
type Session struct {
	mu           sync.Mutex
	bank         *models.QuestionBank
	opts         Options
	index        int
	answers      models.AnswerMap
	saving       bool
	notification Notification
}

func NewSession(bank *models.QuestionBank, opts Options) *Session {
	if opts.NavigateDelay <= 0 {
		opts.NavigateDelay = DefaultNavigateDelay
	}
	return &Session{
		bank:    bank,
		opts:    opts,
		answers: models.NewAnswerMap(bank),
	}
}

func (s *Session) lastIndex() int {
	return s.bank.Len() - 1
}

// SetAnswer records a slider value, clamped to [0, 100].
func (s *Session) SetAnswer(questionID string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	if _, ok := s.bank.Lookup(questionID); !ok {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = clamp(value)
	return nil
}

// Previous steps back one question; it does nothing on the first.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Next advances one question, or finishes and navigates when called on the
// last one.
func (s *Session) Next(ctx context.Context, router persistence.Router) (Outcome, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return Outcome{}, ErrSaveInProgress
	}
	if s.index < s.lastIndex() {
		s.index++
		s.mu.Unlock()
		return Outcome{}, nil
	}
	s.mu.Unlock()
	return s.Finish(ctx, router, true)
}

// Finish aggregates the answers and saves them through router. On failure
// the answers and position are kept so the caller can retry. With navigate
// set, a successful finish also clears the answers for the next run.
func (s *Session) Finish(ctx context.Context, router persistence.Router, navigate bool) (Outcome, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return Outcome{}, ErrSaveInProgress
	}
	s.saving = true
	scores := scoring.Aggregate(s.answers, s.bank)
	s.mu.Unlock()

	err := router.Save(ctx, scores)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		s.notification = Notify(SeverityError, failureMessage(err))
		return Outcome{}, err
	}

	guest := router.Mode() == persistence.ModeGuest
	if guest {
		s.notification = Notify(SeverityInfo, MessageGuestDone)
	} else {
		s.notification = Notify(SeveritySuccess, MessageSaved)
	}

	out := Outcome{Finished: true, Scores: &scores, Saved: !guest, Guest: guest}
	if navigate {
		out.NavigateTo = ResultPath
		out.NavigateAfter = s.opts.NavigateDelay
		s.reset()
	}
	return out, nil
}

// Reset returns to the first question with default answers. The
// notification is left alone.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.index = 0
	s.answers = models.NewAnswerMap(s.bank)
}

// Dismiss closes the current notification.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = Notification{}
}

func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Index:        s.index,
		Total:        s.bank.Len(),
		Question:     s.bank.At(s.index),
		Answers:      s.answers.Clone(),
		Saving:       s.saving,
		Notification: s.notification,
	}
}

// userMessager is implemented by store errors that carry display text.
type userMessager interface {
	UserMessage() string
}

func failureMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MessageSaveFailed
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
