package grading

import (
	"fmt"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// Result is the aggregate outcome of grading one submission.
type Result struct {
	GradedAnswers []models.Answer
	Score         float64
	MaxScore      int
}

// Percentage is the rounded percent used against the passing threshold.
func (r Result) Percentage() int {
	return models.Percentage(r.Score, r.MaxScore)
}

// Grade scores a set of submitted answers against a quiz's question list.
// It is pure: no I/O, no clock, no randomness.
//
// Answers whose question id does not match any question pass through
// ungraded and contribute nothing to MaxScore. MaxScore accumulates the
// points of every matched question regardless of type; Score sums points
// only over answers graded strictly correct, so manually-graded variants
// (code_challenge, essay) start at zero until an instructor grades them.
func Grade(answers []models.Answer, questions []models.Question) (Result, error) {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := Result{GradedAnswers: make([]models.Answer, 0, len(answers))}
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			// Stale or bogus question reference: keep the entry but never score it.
			answer.Status = models.GradingUngraded
			answer.PointsEarned = 0
			result.GradedAnswers = append(result.GradedAnswers, answer)
			continue
		}

		handler, ok := handlerFor(question.Type)
		if !ok {
			return Result{}, fmt.Errorf("unsupported question type %q for question %s", question.Type, question.ID)
		}

		outcome, err := handler.grade(question, answer)
		if err != nil {
			return Result{}, fmt.Errorf("grade question %s: %w", question.ID, err)
		}

		answer.Status = outcome.Status
		answer.PointsEarned = outcome.PointsEarned

		result.MaxScore += question.Points
		if outcome.Status == models.GradingCorrect {
			result.Score += outcome.PointsEarned
		}
		result.GradedAnswers = append(result.GradedAnswers, answer)
	}

	return result, nil
}

// AggregateScore sums points earned across every answer entry. Manual
// grading recomputes the attempt score with this, against the max score
// fixed at submission time.
func AggregateScore(answers []models.Answer) float64 {
	var total float64
	for _, a := range answers {
		total += a.PointsEarned
	}
	return total
}
