package scoring

import "teaminsight/internal/models"

// Range thresholds. The same LEFT/RIGHT values also drive TendencyOf, but
// with inclusive comparisons on both sides, so 67 is rightMiddle here and
// right there.
const (
	ThresholdLeft        = 33
	ThresholdLeftMiddle  = 40
	ThresholdMiddleRight = 60
	ThresholdRight       = 67
)

// Comment thresholds. The comment table splits at 33 and 60 only.
const (
	commentLeftMax   = 33
	commentMiddleMax = 60
)

// ScoreRangeOf classifies a score into one of five ranges.
func ScoreRangeOf(score int) models.ScoreRange {
	switch {
	case score <= ThresholdLeft:
		return models.RangeLeft
	case score <= ThresholdLeftMiddle:
		return models.RangeLeftMiddle
	case score <= ThresholdMiddleRight:
		return models.RangeMiddle
	case score <= ThresholdRight:
		return models.RangeRightMiddle
	default:
		return models.RangeRight
	}
}

// TendencyOf classifies a score into left, balance or right.
func TendencyOf(score int) models.Tendency {
	switch {
	case score <= ThresholdLeft:
		return models.TendencyLeft
	case score >= ThresholdRight:
		return models.TendencyRight
	default:
		return models.TendencyBalance
	}
}

// textVariant is the 3-way key used by the label and work example tables.
type textVariant int

const (
	variantLeft textVariant = iota
	variantMiddle
	variantRight
)

func variantForRange(r models.ScoreRange) textVariant {
	switch r {
	case models.RangeLeft:
		return variantLeft
	case models.RangeRight:
		return variantRight
	default:
		return variantMiddle
	}
}

func commentVariant(score int) textVariant {
	switch {
	case score <= commentLeftMax:
		return variantLeft
	case score <= commentMiddleMax:
		return variantMiddle
	default:
		return variantRight
	}
}
