// Package scoring turns slider answers into axis scores and maps those scores
// to tendency buckets and display text.
package scoring

import (
	"fmt"
	"math"

	"teaminsight/internal/models"
)

// Aggregate averages the answers of every question tagged with an axis and
// rounds half away from zero. Answers must contain every question id in the
// bank; a missing id is a programming error and panics.
func Aggregate(answers models.AnswerMap, bank *models.QuestionBank) models.AxisScores {
	sums := make(map[models.Axis]int, len(models.Axes))
	counts := make(map[models.Axis]int, len(models.Axes))

	for _, q := range bank.Questions {
		v, ok := answers[q.ID]
		if !ok {
			panic(fmt.Sprintf("scoring: no answer for question %q", q.ID))
		}
		sums[q.Axis] += v
		counts[q.Axis]++
	}

	result := make(map[models.Axis]int, len(models.Axes))
	for _, axis := range models.Axes {
		if counts[axis] == 0 {
			panic(fmt.Sprintf("scoring: axis %q has no questions", axis))
		}
		result[axis] = int(math.Round(float64(sums[axis]) / float64(counts[axis])))
	}
	return models.NewAxisScores(result)
}
