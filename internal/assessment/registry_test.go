package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
)

func newTestRegistry(t *testing.T, size int) (*Registry, *time.Time) {
	t.Helper()
	r, err := NewRegistry(size, models.DefaultQuestionBank(), nil)
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r, &now
}

func peek(r *Registry, key string) (*Session, bool) {
	e, ok := r.cache.Peek(key)
	if !ok {
		return nil, false
	}
	return e.session, true
}

func TestRegistry_GetReturnsSameSession(t *testing.T) {
	r, _ := newTestRegistry(t, 4)

	a := r.Get("browser-a")
	require.NoError(t, a.SetAnswer("energy_1", 12))
	assert.Same(t, a, r.Get("browser-a"))
	assert.NotSame(t, a, r.Get("browser-b"))
	assert.Equal(t, 2, r.Len())

	got, ok := peek(r, "browser-a")
	require.True(t, ok)
	assert.Equal(t, 12, got.State().Answers["energy_1"])

	_, ok = peek(r, "missing")
	assert.False(t, ok)
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	r, _ := newTestRegistry(t, 2)
	r.Get("a")
	r.Get("b")
	r.Get("a")
	r.Get("c")

	_, ok := peek(r, "b")
	assert.False(t, ok)
	_, ok = peek(r, "a")
	assert.True(t, ok)
}

func TestRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(t, 2)
	r.Get("a")
	r.Remove("a")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, now := newTestRegistry(t, 8)
	r.Get("old")
	*now = now.Add(30 * time.Minute)
	r.Get("fresh")
	*now = now.Add(40 * time.Minute)

	removed := r.Sweep(time.Hour)
	assert.Equal(t, 1, removed)
	_, ok := peek(r, "old")
	assert.False(t, ok)
	_, ok = peek(r, "fresh")
	assert.True(t, ok)
}

func TestRegistry_SweepKeepsSavingSessions(t *testing.T) {
	r, now := newTestRegistry(t, 8)
	s := r.Get("busy")

	store := newRecordingStore()
	store.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := s.Finish(context.Background(), persistence.Authenticated("u1", store), true)
		done <- err
	}()
	require.Eventually(t, s.Saving, time.Second, time.Millisecond)

	*now = now.Add(24 * time.Hour)
	assert.Equal(t, 0, r.Sweep(time.Hour))

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, r.Sweep(time.Hour))
}

func TestRegistry_UsesCurrentOptions(t *testing.T) {
	delay := 5 * time.Millisecond
	r, err := NewRegistry(2, models.DefaultQuestionBank(), func() Options {
		return Options{NavigateDelay: delay}
	})
	require.NoError(t, err)

	out, err := r.Get("a").Finish(context.Background(), persistence.Guest(persistence.NewMemoryLocalStore()), true)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, out.NavigateAfter)

	delay = 7 * time.Millisecond
	out, err = r.Get("b").Finish(context.Background(), persistence.Guest(persistence.NewMemoryLocalStore()), true)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Millisecond, out.NavigateAfter)
}
