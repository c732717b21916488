// Package persistence decides where a completed assessment is written and
// where the current scores are read from.
package persistence

import (
	"context"

	"teaminsight/internal/models"
)

// ScoreStore is the remote per-user store used for authenticated users.
type ScoreStore interface {
	SaveLatest(ctx context.Context, uid string, scores models.AxisScores) error
	AppendHistory(ctx context.Context, uid string, scores models.AxisScores) error
	GetLatest(ctx context.Context, uid string) (*models.AxisScores, error)
	GetHistory(ctx context.Context, uid string, limit int) ([]models.AssessmentHistory, error)
}

// ResultSaver is implemented by stores that write the latest slot and the
// history entry of one completion together, under one timestamp.
type ResultSaver interface {
	SaveResult(ctx context.Context, uid string, scores models.AxisScores) error
}

// LocalStore is the single-slot guest cache. It has no history.
type LocalStore interface {
	Put(ctx context.Context, scores models.AxisScores) error
	Get(ctx context.Context) (*models.AxisScores, error)
}

// Identity is the resolved caller. An empty UID means guest.
type Identity struct {
	UID string
}

func (i Identity) IsGuest() bool {
	return i.UID == ""
}

// Mode tags which branch a Router takes.
type Mode int

const (
	ModeGuest Mode = iota
	ModeAuthenticated
)

func (m Mode) String() string {
	if m == ModeAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// Router holds exactly one of the two persistence targets.
type Router struct {
	mode   Mode
	local  LocalStore
	uid    string
	remote ScoreStore
}

// Guest routes everything to the local cache.
func Guest(local LocalStore) Router {
	return Router{mode: ModeGuest, local: local}
}

// Authenticated routes everything to the remote store under uid.
func Authenticated(uid string, remote ScoreStore) Router {
	return Router{mode: ModeAuthenticated, uid: uid, remote: remote}
}

// For picks the branch from an identity.
func For(id Identity, local LocalStore, remote ScoreStore) Router {
	if id.IsGuest() {
		return Guest(local)
	}
	return Authenticated(id.UID, remote)
}

func (r Router) Mode() Mode {
	return r.mode
}

func (r Router) UID() string {
	return r.uid
}

// Save persists one completed result. Authenticated saves overwrite the
// latest slot and then append to history.
func (r Router) Save(ctx context.Context, scores models.AxisScores) error {
	if r.mode == ModeGuest {
		return r.local.Put(ctx, scores)
	}
	if saver, ok := r.remote.(ResultSaver); ok {
		return saver.SaveResult(ctx, r.uid, scores)
	}
	if err := r.remote.SaveLatest(ctx, r.uid, scores); err != nil {
		return err
	}
	return r.remote.AppendHistory(ctx, r.uid, scores)
}

// Latest returns nil, nil when nothing has been completed yet.
func (r Router) Latest(ctx context.Context) (*models.AxisScores, error) {
	if r.mode == ModeGuest {
		return r.local.Get(ctx)
	}
	return r.remote.GetLatest(ctx, r.uid)
}

// History is always empty for guests.
func (r Router) History(ctx context.Context, limit int) ([]models.AssessmentHistory, error) {
	if r.mode == ModeGuest {
		return []models.AssessmentHistory{}, nil
	}
	return r.remote.GetHistory(ctx, r.uid, limit)
}
