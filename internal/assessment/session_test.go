package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/repository"
)

type recordingStore struct {
	mu        sync.Mutex
	latest    map[string]models.AxisScores
	history   map[string][]models.AxisScores
	saveErr   error
	block     chan struct{}
	saveCalls int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		latest:  map[string]models.AxisScores{},
		history: map[string][]models.AxisScores{},
	}
}

func (s *recordingStore) SaveLatest(_ context.Context, uid string, scores models.AxisScores) error {
	s.mu.Lock()
	s.saveCalls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.latest[uid] = scores
	return nil
}

func (s *recordingStore) AppendHistory(_ context.Context, uid string, scores models.AxisScores) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[uid] = append(s.history[uid], scores)
	return nil
}

func (s *recordingStore) GetLatest(_ context.Context, uid string) (*models.AxisScores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.latest[uid]; ok {
		return &v, nil
	}
	return nil, nil
}

func (s *recordingStore) GetHistory(context.Context, string, int) ([]models.AssessmentHistory, error) {
	return nil, nil
}

func newTestSession() *Session {
	return NewSession(models.DefaultQuestionBank(), Options{NavigateDelay: 10 * time.Millisecond})
}

func answerAll(t *testing.T, s *Session, values map[models.Axis]int) {
	t.Helper()
	bank := models.DefaultQuestionBank()
	for _, q := range bank.Questions {
		require.NoError(t, s.SetAnswer(q.ID, values[q.Axis]))
	}
}

func TestSession_NewStartsAtFirstQuestionWithDefaults(t *testing.T) {
	s := newTestSession()
	state := s.State()

	assert.Equal(t, 0, state.Index)
	assert.Equal(t, models.QuestionCount, state.Total)
	assert.Equal(t, "energy_1", state.Question.ID)
	assert.Len(t, state.Answers, models.QuestionCount)
	for id, v := range state.Answers {
		assert.Equal(t, models.DefaultAnswer, v, id)
	}
	assert.False(t, state.Notification.Open())
	assert.False(t, state.Saving)
}

func TestSession_SetAnswer(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SetAnswer("thinking_2", 80))
	assert.Equal(t, 80, s.State().Answers["thinking_2"])

	require.NoError(t, s.SetAnswer("thinking_2", 150))
	assert.Equal(t, 100, s.State().Answers["thinking_2"])

	require.NoError(t, s.SetAnswer("thinking_2", -3))
	assert.Equal(t, 0, s.State().Answers["thinking_2"])

	assert.ErrorIs(t, s.SetAnswer("nope", 10), ErrUnknownQuestion)
}

func TestSession_StateAnswersAreACopy(t *testing.T) {
	s := newTestSession()
	state := s.State()
	state.Answers["energy_1"] = 99
	assert.Equal(t, models.DefaultAnswer, s.State().Answers["energy_1"])
}

func TestSession_Navigation(t *testing.T) {
	ctx := context.Background()
	local := persistence.NewMemoryLocalStore()
	router := persistence.Guest(local)
	s := newTestSession()

	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.State().Index, "previous on the first question is a no-op")

	for i := 1; i < models.QuestionCount; i++ {
		out, err := s.Next(ctx, router)
		require.NoError(t, err)
		assert.False(t, out.Finished)
		assert.Equal(t, i, s.State().Index)
	}

	got, err := local.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "nothing is saved before the last question")

	require.NoError(t, s.Previous())
	assert.Equal(t, models.QuestionCount-2, s.State().Index)
	_, err = s.Next(ctx, router)
	require.NoError(t, err)

	out, err := s.Next(ctx, router)
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Equal(t, ResultPath, out.NavigateTo)
	assert.Equal(t, 10*time.Millisecond, out.NavigateAfter)
}

func TestSession_FinishGuest(t *testing.T) {
	ctx := context.Background()
	local := persistence.NewMemoryLocalStore()
	s := newTestSession()
	answerAll(t, s, map[models.Axis]int{
		models.AxisEnergy:   10,
		models.AxisThinking: 50,
		models.AxisPlanning: 70,
		models.AxisVision:   90,
	})

	out, err := s.Finish(ctx, persistence.Guest(local), true)
	require.NoError(t, err)

	want := models.AxisScores{Energy: 10, Thinking: 50, Planning: 70, Vision: 90}
	require.NotNil(t, out.Scores)
	assert.Equal(t, want, *out.Scores)
	assert.True(t, out.Guest)
	assert.False(t, out.Saved)

	stored, err := local.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, want, *stored)

	state := s.State()
	assert.Equal(t, SeverityInfo, state.Notification.Severity())
	assert.Equal(t, MessageGuestDone, state.Notification.Message())
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, models.DefaultAnswer, state.Answers["vision_1"], "answers reset after navigation")
}

func TestSession_FinishAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	s := newTestSession()

	out, err := s.Finish(ctx, persistence.Authenticated("u1", store), true)
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.False(t, out.Guest)

	assert.Equal(t, models.AxisScores{Energy: 50, Thinking: 50, Planning: 50, Vision: 50}, store.latest["u1"])
	assert.Len(t, store.history["u1"], 1)

	n := s.State().Notification
	assert.Equal(t, SeveritySuccess, n.Severity())
	assert.Equal(t, MessageSaved, n.Message())
}

func TestSession_FinishWithoutNavigateKeepsAnswers(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.SetAnswer("energy_1", 5))

	out, err := s.Finish(context.Background(), persistence.Guest(persistence.NewMemoryLocalStore()), false)
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Empty(t, out.NavigateTo)
	assert.Equal(t, 5, s.State().Answers["energy_1"])
}

func TestSession_FailedSaveKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.saveErr = &repository.StoreError{
		Op:   repository.OpSaveLatest,
		Kind: repository.KindPermissionDenied,
		Err:  errors.New("denied"),
	}
	router := persistence.Authenticated("u1", store)
	s := newTestSession()
	require.NoError(t, s.SetAnswer("planning_3", 77))
	for i := 1; i < models.QuestionCount; i++ {
		_, err := s.Next(ctx, router)
		require.NoError(t, err)
	}

	_, err := s.Next(ctx, router)
	require.Error(t, err)
	assert.Equal(t, repository.KindPermissionDenied, repository.KindOf(err))

	state := s.State()
	assert.Equal(t, models.QuestionCount-1, state.Index)
	assert.Equal(t, 77, state.Answers["planning_3"])
	assert.False(t, state.Saving)
	assert.Equal(t, SeverityError, state.Notification.Severity())
	assert.Equal(t, "権限がありません。データベースのアクセス権限設定を確認してください。", state.Notification.Message())
	assert.Empty(t, store.history["u1"], "history is not appended after a failed latest write")

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	out, err := s.Next(ctx, router)
	require.NoError(t, err)
	assert.Equal(t, 59, out.Scores.Planning)
}

func TestSession_PlainErrorMessage(t *testing.T) {
	store := newRecordingStore()
	store.saveErr = errors.New("boom")
	s := newTestSession()

	_, err := s.Finish(context.Background(), persistence.Authenticated("u1", store), true)
	require.Error(t, err)
	assert.Equal(t, "boom", s.State().Notification.Message())
}

func TestSession_DoubleSubmitIsRejected(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.block = make(chan struct{})
	router := persistence.Authenticated("u1", store)
	s := newTestSession()

	done := make(chan error, 1)
	go func() {
		_, err := s.Finish(ctx, router, true)
		done <- err
	}()

	require.Eventually(t, s.Saving, time.Second, time.Millisecond)

	_, err := s.Finish(ctx, router, true)
	assert.ErrorIs(t, err, ErrSaveInProgress)
	_, err = s.Next(ctx, router)
	assert.ErrorIs(t, err, ErrSaveInProgress)
	assert.ErrorIs(t, s.SetAnswer("energy_1", 1), ErrSaveInProgress)
	assert.ErrorIs(t, s.Previous(), ErrSaveInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, s.Saving())
	assert.Equal(t, 1, store.saveCalls)
	assert.Len(t, store.history["u1"], 1)
}

func TestSession_DismissNotification(t *testing.T) {
	s := newTestSession()
	_, err := s.Finish(context.Background(), persistence.Guest(persistence.NewMemoryLocalStore()), true)
	require.NoError(t, err)
	require.True(t, s.State().Notification.Open())

	s.Dismiss()
	n := s.State().Notification
	assert.False(t, n.Open())
	assert.Empty(t, n.Message())
}

func TestSession_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	require.NoError(t, s.SetAnswer("vision_2", 3))
	_, err := s.Next(ctx, persistence.Guest(persistence.NewMemoryLocalStore()))
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	state := s.State()
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, models.DefaultAnswer, state.Answers["vision_2"])
}

func TestNotification_JSON(t *testing.T) {
	data, err := Notify(SeverityWarning, "注意").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"open":true,"severity":"warning","message":"注意"}`, string(data))

	data, err = Notification{}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"open":false}`, string(data))
}

func TestNewSession_DefaultDelay(t *testing.T) {
	s := NewSession(models.DefaultQuestionBank(), Options{})
	out, err := s.Finish(context.Background(), persistence.Guest(persistence.NewMemoryLocalStore()), true)
	require.NoError(t, err)
	assert.Equal(t, DefaultNavigateDelay, out.NavigateAfter)
}
