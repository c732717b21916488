package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-contrib/sessions"

	"teaminsight/internal/models"
)

// GuestScoresKey is the session key holding the guest's last result.
const GuestScoresKey = "guest_assessment_scores"

// SessionLocalStore keeps the guest result as JSON in the browser session.
type SessionLocalStore struct {
	session sessions.Session
}

func NewSessionLocalStore(session sessions.Session) *SessionLocalStore {
	return &SessionLocalStore{session: session}
}

func (s *SessionLocalStore) Put(_ context.Context, scores models.AxisScores) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	s.session.Set(GuestScoresKey, string(data))
	if err := s.session.Save(); err != nil {
		return fmt.Errorf("save guest session: %w", err)
	}
	return nil
}

// Get treats an unreadable cookie value as "no scores" so a corrupt cookie
// never blocks the guest from retaking the assessment.
func (s *SessionLocalStore) Get(_ context.Context) (*models.AxisScores, error) {
	raw, ok := s.session.Get(GuestScoresKey).(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var scores models.AxisScores
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, nil
	}
	return &scores, nil
}

// MemoryLocalStore is an in-process LocalStore.
type MemoryLocalStore struct {
	mu     sync.Mutex
	scores *models.AxisScores
}

func NewMemoryLocalStore() *MemoryLocalStore {
	return &MemoryLocalStore{}
}

func (m *MemoryLocalStore) Put(_ context.Context, scores models.AxisScores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = &scores
	return nil
}

func (m *MemoryLocalStore) Get(_ context.Context) (*models.AxisScores, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scores == nil {
		return nil, nil
	}
	s := *m.scores
	return &s, nil
}
