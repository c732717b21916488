package scoring

import "teaminsight/internal/models"

// Overall summary sentences.
const (
	SummaryBalanced         = "状況を見ながらバランスよく判断するタイプ。チームでは調整役になることが多そうです。"
	SummaryLeftCautiousFlex = "情報を集めてから動き、状況に合わせて柔軟に調整するタイプ。リスクを見ながら着実に進めるのが得意そうです。"
	SummaryLeftGeneric      = "慎重さと柔軟さを持ち合わせたタイプ。まわりの状況を確認してから動くことが多そうです。"
	SummaryRightActPlan     = "まず動いてから調整し、計画を立てて進めるタイプ。スピードと計画性を両立させるのが得意そうです。"
	SummaryRightGeneric     = "論理的で計画的に進めるタイプ。データや根拠をもとに判断することが多そうです。"
)

// Bounds of the mean score that still reads as balanced for mixed profiles.
const (
	mixedBalancedMin = 40
	mixedBalancedMax = 60
)

// OverallSummary picks one sentence for the whole profile. Rules are
// evaluated in order and the first match wins; the pair checks only ever
// look at energy and planning.
func OverallSummary(scores models.AxisScores) string {
	tendencies := make(map[models.Axis]models.Tendency, len(models.Axes))
	var balanceCount, leftCount, rightCount int
	for _, axis := range models.Axes {
		t := TendencyOf(scores.Get(axis))
		tendencies[axis] = t
		switch t {
		case models.TendencyBalance:
			balanceCount++
		case models.TendencyLeft:
			leftCount++
		case models.TendencyRight:
			rightCount++
		}
	}

	if balanceCount >= 3 {
		return SummaryBalanced
	}

	if leftCount >= 2 {
		if tendencies[models.AxisEnergy] == models.TendencyLeft && tendencies[models.AxisPlanning] == models.TendencyLeft {
			return SummaryLeftCautiousFlex
		}
		return SummaryLeftGeneric
	}

	if rightCount >= 2 {
		if tendencies[models.AxisEnergy] == models.TendencyRight && tendencies[models.AxisPlanning] == models.TendencyRight {
			return SummaryRightActPlan
		}
		return SummaryRightGeneric
	}

	avg := float64(scores.Energy+scores.Thinking+scores.Planning+scores.Vision) / 4
	if avg >= mixedBalancedMin && avg <= mixedBalancedMax {
		return SummaryBalanced
	}
	return SummaryLeftGeneric
}

// AxisReport is the rendered view of a single axis.
type AxisReport struct {
	AxisMeta
	Score       int               `json:"score"`
	Range       models.ScoreRange `json:"range"`
	Tendency    models.Tendency   `json:"tendency"`
	Label       string            `json:"label"`
	WorkExample string            `json:"workExample"`
	Comment     string            `json:"comment"`
}

// ResultReport bundles everything the result view displays.
type ResultReport struct {
	Scores  models.AxisScores `json:"scores"`
	Axes    []AxisReport      `json:"axes"`
	Summary string            `json:"summary"`
}

func Report(scores models.AxisScores) ResultReport {
	report := ResultReport{
		Scores:  scores,
		Axes:    make([]AxisReport, 0, len(models.Axes)),
		Summary: OverallSummary(scores),
	}
	for _, axis := range models.Axes {
		score := scores.Get(axis)
		report.Axes = append(report.Axes, AxisReport{
			AxisMeta:    AxisInfo(axis),
			Score:       score,
			Range:       ScoreRangeOf(score),
			Tendency:    TendencyOf(score),
			Label:       TendencyLabel(axis, score),
			WorkExample: WorkExample(axis, score),
			Comment:     Comment(axis, score),
		})
	}
	return report
}
