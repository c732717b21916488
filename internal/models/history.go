package models

import "time"

// ScoreSchemaVersion tags every latest-slot record.
const ScoreSchemaVersion = "axis_v1"

// AssessmentHistory is one immutable past result.
type AssessmentHistory struct {
	ID string `json:"id"`
	AxisScores
	AnsweredAt Timestamp `json:"answeredAt"`
}

// LatestScore is the per-user "latest" slot, overwritten on every completion.
type LatestScore struct {
	UserID     string    `gorm:"primaryKey;size:36"`
	Energy     int       `gorm:"not null"`
	Thinking   int       `gorm:"not null"`
	Planning   int       `gorm:"not null"`
	Vision     int       `gorm:"not null"`
	AnsweredAt Timestamp
	Version    string `gorm:"size:16;not null"`
	UpdatedAt  time.Time
}

func (LatestScore) TableName() string {
	return "latest_scores"
}

func (l LatestScore) Scores() AxisScores {
	return AxisScores{Energy: l.Energy, Thinking: l.Thinking, Planning: l.Planning, Vision: l.Vision}
}

// HistoryEntry is an append-only history record.
type HistoryEntry struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     string `gorm:"size:36;not null;index:idx_history_user_answered,priority:1"`
	Energy     int    `gorm:"not null"`
	Thinking   int    `gorm:"not null"`
	Planning   int    `gorm:"not null"`
	Vision     int    `gorm:"not null"`
	AnsweredAt Timestamp `gorm:"index:idx_history_user_answered,priority:2,sort:desc"`
	CreatedAt  time.Time
}

func (HistoryEntry) TableName() string {
	return "assessment_history"
}

func (h HistoryEntry) History() AssessmentHistory {
	return AssessmentHistory{
		ID:         h.ID,
		AxisScores: AxisScores{Energy: h.Energy, Thinking: h.Thinking, Planning: h.Planning, Vision: h.Vision},
		AnsweredAt: h.AnsweredAt,
	}
}
