package scoring

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"teaminsight/internal/models"
)

// ErrNotEnoughHistory is returned when a comparison needs two results.
var ErrNotEnoughHistory = errors.New("at least two results are needed to compare")

// stableBand is the absolute change below which an axis counts as stable.
const stableBand = 5

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// AxisChange compares one axis between the newest and the previous result.
type AxisChange struct {
	Axis     models.Axis `json:"axis"`
	Name     string      `json:"name"`
	Current  int         `json:"current"`
	Previous int         `json:"previous"`
	Change   int         `json:"change"`
	Trend    Trend       `json:"trend"`
}

// NewestFirst returns a copy of history sorted by AnsweredAt descending.
// Missing timestamps sort as the epoch.
func NewestFirst(history []models.AssessmentHistory) []models.AssessmentHistory {
	sorted := make([]models.AssessmentHistory, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnsweredAt.Millis() > sorted[j].AnsweredAt.Millis()
	})
	return sorted
}

// OldestFirst returns a copy of history sorted by AnsweredAt ascending.
func OldestFirst(history []models.AssessmentHistory) []models.AssessmentHistory {
	sorted := make([]models.AssessmentHistory, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnsweredAt.Millis() < sorted[j].AnsweredAt.Millis()
	})
	return sorted
}

// Changes compares the two most recent results axis by axis.
func Changes(history []models.AssessmentHistory) ([]AxisChange, error) {
	if len(history) < 2 {
		return nil, ErrNotEnoughHistory
	}
	sorted := NewestFirst(history)
	current, previous := sorted[0], sorted[1]

	changes := make([]AxisChange, 0, len(models.Axes))
	for _, axis := range models.Axes {
		cur, prev := current.Get(axis), previous.Get(axis)
		diff := cur - prev
		trend := TrendStable
		if abs(diff) >= stableBand {
			if diff > 0 {
				trend = TrendUp
			} else {
				trend = TrendDown
			}
		}
		changes = append(changes, AxisChange{
			Axis:     axis,
			Name:     AxisInfo(axis).Name,
			Current:  cur,
			Previous: prev,
			Change:   diff,
			Trend:    trend,
		})
	}
	return changes, nil
}

// TrendPoint is one x-axis entry of the score trend chart.
type TrendPoint struct {
	Label  string            `json:"label"`
	At     models.Timestamp  `json:"at"`
	Scores models.AxisScores `json:"scores"`
}

// TrendSeries orders history oldest first and labels each point with its
// month/day in loc, or with its position when the timestamp is missing.
// A nil loc means UTC.
func TrendSeries(history []models.AssessmentHistory, loc *time.Location) []TrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	sorted := OldestFirst(history)
	points := make([]TrendPoint, 0, len(sorted))
	for i, h := range sorted {
		label := fmt.Sprintf("#%d", i+1)
		if t, ok := h.AnsweredAt.Time(); ok {
			t = t.In(loc)
			label = fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
		}
		points = append(points, TrendPoint{Label: label, At: h.AnsweredAt, Scores: h.AxisScores})
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
