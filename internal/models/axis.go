package models

import "fmt"

// Axis is one of the four fixed dimensions the instrument measures.
type Axis string

const (
	AxisEnergy   Axis = "energy"
	AxisThinking Axis = "thinking"
	AxisPlanning Axis = "planning"
	AxisVision   Axis = "vision"
)

// Axes lists every axis in display order.
var Axes = []Axis{AxisEnergy, AxisThinking, AxisPlanning, AxisVision}

func (a Axis) Valid() bool {
	switch a {
	case AxisEnergy, AxisThinking, AxisPlanning, AxisVision:
		return true
	}
	return false
}

// AxisScores holds the four 0-100 results of one completed assessment.
type AxisScores struct {
	Energy   int `json:"energy"`
	Thinking int `json:"thinking"`
	Planning int `json:"planning"`
	Vision   int `json:"vision"`
}

// Get returns the score for a single axis.
func (s AxisScores) Get(axis Axis) int {
	switch axis {
	case AxisEnergy:
		return s.Energy
	case AxisThinking:
		return s.Thinking
	case AxisPlanning:
		return s.Planning
	case AxisVision:
		return s.Vision
	}
	panic(fmt.Sprintf("models: unknown axis %q", axis))
}

func (s *AxisScores) set(axis Axis, v int) {
	switch axis {
	case AxisEnergy:
		s.Energy = v
	case AxisThinking:
		s.Thinking = v
	case AxisPlanning:
		s.Planning = v
	case AxisVision:
		s.Vision = v
	default:
		panic(fmt.Sprintf("models: unknown axis %q", axis))
	}
}

// NewAxisScores builds AxisScores from a per-axis map. Axes absent from the
// map are left at zero.
func NewAxisScores(values map[Axis]int) AxisScores {
	var s AxisScores
	for axis, v := range values {
		s.set(axis, v)
	}
	return s
}

// ScoreRange is the 5-bucket classification of a single axis score.
type ScoreRange string

const (
	RangeLeft        ScoreRange = "left"
	RangeLeftMiddle  ScoreRange = "leftMiddle"
	RangeMiddle      ScoreRange = "middle"
	RangeRightMiddle ScoreRange = "rightMiddle"
	RangeRight       ScoreRange = "right"
)

// Tendency is the coarse 3-bucket classification of a single axis score.
type Tendency string

const (
	TendencyLeft    Tendency = "left"
	TendencyBalance Tendency = "balance"
	TendencyRight   Tendency = "right"
)
