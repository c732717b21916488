package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"teaminsight/internal/models"
)

// DefaultHistoryLimit bounds history reads when the caller passes no limit.
const DefaultHistoryLimit = 50

// ScoreRepository is the remote score store: one latest slot per user plus
// an append-only history log.
type ScoreRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db, now: time.Now}
}

// WithClock replaces the timestamp source. Tests use it to get stable times.
func (r *ScoreRepository) WithClock(now func() time.Time) *ScoreRepository {
	r.now = now
	return r
}

// SaveLatest overwrites the user's latest slot and stamps it.
func (r *ScoreRepository) SaveLatest(ctx context.Context, uid string, scores models.AxisScores) error {
	return saveLatest(r.db.WithContext(ctx), uid, scores, r.now())
}

// AppendHistory writes a new immutable history record.
func (r *ScoreRepository) AppendHistory(ctx context.Context, uid string, scores models.AxisScores) error {
	return appendHistory(r.db.WithContext(ctx), uid, scores, r.now())
}

// SaveResult records one completion: the latest slot and a history entry,
// both stamped with the same time, in a single transaction.
func (r *ScoreRepository) SaveResult(ctx context.Context, uid string, scores models.AxisScores) error {
	at := r.now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveLatest(tx, uid, scores, at); err != nil {
			return err
		}
		return appendHistory(tx, uid, scores, at)
	})
	var se *StoreError
	if err != nil && !errors.As(err, &se) {
		return wrap(OpSaveLatest, err)
	}
	return err
}

func saveLatest(db *gorm.DB, uid string, scores models.AxisScores, at time.Time) error {
	record := models.LatestScore{
		UserID:     uid,
		Energy:     scores.Energy,
		Thinking:   scores.Thinking,
		Planning:   scores.Planning,
		Vision:     scores.Vision,
		AnsweredAt: models.NewTimestamp(at),
		Version:    models.ScoreSchemaVersion,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy", "thinking", "planning", "vision", "answered_at", "version", "updated_at"}),
	}).Create(&record).Error
	return wrap(OpSaveLatest, err)
}

func appendHistory(db *gorm.DB, uid string, scores models.AxisScores, at time.Time) error {
	entry := models.HistoryEntry{
		ID:         uuid.NewString(),
		UserID:     uid,
		Energy:     scores.Energy,
		Thinking:   scores.Thinking,
		Planning:   scores.Planning,
		Vision:     scores.Vision,
		AnsweredAt: models.NewTimestamp(at),
	}
	return wrap(OpAppendHistory, db.Create(&entry).Error)
}

// GetLatest returns nil, nil when the user has not completed an assessment.
func (r *ScoreRepository) GetLatest(ctx context.Context, uid string) (*models.AxisScores, error) {
	var record models.LatestScore
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(OpGetLatest, err)
	}
	scores := record.Scores()
	return &scores, nil
}

// GetHistory returns up to limit records, most recent first.
func (r *ScoreRepository) GetHistory(ctx context.Context, uid string, limit int) ([]models.AssessmentHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var entries []models.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("answered_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, wrap(OpGetHistory, err)
	}

	history := make([]models.AssessmentHistory, 0, len(entries))
	for _, e := range entries {
		history = append(history, e.History())
	}
	return history, nil
}

// CountHistory returns how many results the user has completed.
func (r *ScoreRepository) CountHistory(ctx context.Context, uid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.HistoryEntry{}).Where("user_id = ?", uid).Count(&count).Error
	return count, wrap(OpGetHistory, err)
}
