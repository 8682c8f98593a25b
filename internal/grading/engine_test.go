package grading

import (
	"encoding/json"
	"testing"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

func mustContent(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	return data
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func multipleChoiceQuestion(t *testing.T, id string, points int, correctOption string) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.MultipleChoice,
		Text:   "Pick one",
		Points: points,
		Content: mustContent(t, models.MultipleChoiceContent{
			Options: []models.ChoiceOption{
				{OptionID: "a", Text: "First", IsCorrect: correctOption == "a"},
				{OptionID: "b", Text: "Second", IsCorrect: correctOption == "b"},
				{OptionID: "c", Text: "Third", IsCorrect: correctOption == "c"},
			},
		}),
	}
}

func trueFalseQuestion(t *testing.T, id string, points int, answer bool) models.Question {
	t.Helper()
	return models.Question{
		ID:      id,
		Type:    models.TrueFalse,
		Text:    "True or false",
		Points:  points,
		Content: mustContent(t, models.TrueFalseContent{CorrectAnswer: answer}),
	}
}

func fillBlankQuestion(t *testing.T, id string, points int, accepted []string, caseSensitive bool) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.FillBlank,
		Text:   "Fill in",
		Points: points,
		Content: mustContent(t, models.FillBlankContent{
			CorrectAnswers: accepted,
			CaseSensitive:  caseSensitive,
		}),
	}
}

func essayQuestion(t *testing.T, id string, points int) models.Question {
	t.Helper()
	return models.Question{
		ID:      id,
		Type:    models.Essay,
		Text:    "Explain",
		Points:  points,
		Content: mustContent(t, models.EssayContent{}),
	}
}

func codeQuestion(t *testing.T, id string, points int) models.Question {
	t.Helper()
	return models.Question{
		ID:     id,
		Type:   models.CodeChallenge,
		Text:   "Implement",
		Points: points,
		Content: mustContent(t, models.CodeChallengeContent{
			Language: "go",
			TestCases: []models.TestCase{
				{Input: "1 2", ExpectedOutput: "3"},
			},
			Solution: strPtr("func add(a, b int) int { return a + b }"),
		}),
	}
}

func TestGrade_AllCorrect(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "b"),
		trueFalseQuestion(t, "q2", 5, true),
		fillBlankQuestion(t, "q3", 5, []string{"gopher"}, false),
	}
	answers := []models.Answer{
		{QuestionID: "q1", SelectedOption: strPtr("b")},
		{QuestionID: "q2", SelectedAnswer: boolPtr(true)},
		{QuestionID: "q3", TextAnswer: strPtr("Gopher")},
	}

	result, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	if result.Score != 20 {
		t.Errorf("Score = %v, want 20", result.Score)
	}
	if result.MaxScore != 20 {
		t.Errorf("MaxScore = %d, want 20", result.MaxScore)
	}
	if result.Percentage() != 100 {
		t.Errorf("Percentage = %d, want 100", result.Percentage())
	}
	for _, a := range result.GradedAnswers {
		if a.Status != models.GradingCorrect {
			t.Errorf("answer %s status = %s, want correct", a.QuestionID, a.Status)
		}
	}
}

func TestGrade_PartialScore(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "a"),
		trueFalseQuestion(t, "q2", 5, true),
	}
	answers := []models.Answer{
		{QuestionID: "q1", SelectedOption: strPtr("c")},
		{QuestionID: "q2", SelectedAnswer: boolPtr(true)},
	}

	result, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	if result.Score != 5 {
		t.Errorf("Score = %v, want 5", result.Score)
	}
	if result.MaxScore != 15 {
		t.Errorf("MaxScore = %d, want 15", result.MaxScore)
	}
	// 5/15 rounds to 33
	if result.Percentage() != 33 {
		t.Errorf("Percentage = %d, want 33", result.Percentage())
	}
	if result.GradedAnswers[0].Status != models.GradingIncorrect {
		t.Errorf("q1 status = %s, want incorrect", result.GradedAnswers[0].Status)
	}
	if result.GradedAnswers[0].PointsEarned != 0 {
		t.Errorf("q1 points = %v, want 0", result.GradedAnswers[0].PointsEarned)
	}
}

func TestGrade_ManualVariantsStartUngraded(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "a"),
		essayQuestion(t, "q2", 20),
		codeQuestion(t, "q3", 30),
	}
	answers := []models.Answer{
		{QuestionID: "q1", SelectedOption: strPtr("a")},
		{QuestionID: "q2", TextAnswer: strPtr("Because of goroutines.")},
		{QuestionID: "q3", CodeAnswer: strPtr("func add(a, b int) int { return a + b }")},
	}

	result, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	// Manual variants count toward the max but earn nothing until graded
	if result.MaxScore != 60 {
		t.Errorf("MaxScore = %d, want 60", result.MaxScore)
	}
	if result.Score != 10 {
		t.Errorf("Score = %v, want 10", result.Score)
	}
	for _, id := range []string{"q2", "q3"} {
		for _, a := range result.GradedAnswers {
			if a.QuestionID == id && a.Status != models.GradingUngraded {
				t.Errorf("answer %s status = %s, want ungraded", id, a.Status)
			}
		}
	}
}

func TestGrade_UnmatchedQuestionPassesThroughUngraded(t *testing.T) {
	questions := []models.Question{
		trueFalseQuestion(t, "q1", 5, false),
	}
	answers := []models.Answer{
		{QuestionID: "q1", SelectedAnswer: boolPtr(false)},
		{QuestionID: "ghost", TextAnswer: strPtr("anything")},
	}

	result, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	// The stale answer stays in the document but never contributes to MaxScore
	if result.MaxScore != 5 {
		t.Errorf("MaxScore = %d, want 5", result.MaxScore)
	}
	if result.Score != 5 {
		t.Errorf("Score = %v, want 5", result.Score)
	}
	if len(result.GradedAnswers) != 2 {
		t.Fatalf("GradedAnswers length = %d, want 2", len(result.GradedAnswers))
	}
	ghost := result.GradedAnswers[1]
	if ghost.Status != models.GradingUngraded {
		t.Errorf("ghost status = %s, want ungraded", ghost.Status)
	}
	if ghost.PointsEarned != 0 {
		t.Errorf("ghost points = %v, want 0", ghost.PointsEarned)
	}
}

func TestGrade_FillBlankCaseSensitivity(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		submitted     string
		want          models.GradingStatus
	}{
		{name: "insensitive match", caseSensitive: false, submitted: "  GOPHER ", want: models.GradingCorrect},
		{name: "sensitive match", caseSensitive: true, submitted: "gopher", want: models.GradingCorrect},
		{name: "sensitive mismatch", caseSensitive: true, submitted: "Gopher", want: models.GradingIncorrect},
		{name: "wrong answer", caseSensitive: false, submitted: "ferret", want: models.GradingIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := []models.Question{
				fillBlankQuestion(t, "q1", 5, []string{"gopher"}, tt.caseSensitive),
			}
			answers := []models.Answer{
				{QuestionID: "q1", TextAnswer: strPtr(tt.submitted)},
			}

			result, err := Grade(answers, questions)
			if err != nil {
				t.Fatalf("Grade returned error: %v", err)
			}
			if result.GradedAnswers[0].Status != tt.want {
				t.Errorf("status = %s, want %s", result.GradedAnswers[0].Status, tt.want)
			}
		})
	}
}

func TestGrade_MissingPayloadIsIncorrect(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "a"),
		trueFalseQuestion(t, "q2", 5, true),
		fillBlankQuestion(t, "q3", 5, []string{"yes"}, false),
	}
	answers := []models.Answer{
		{QuestionID: "q1"},
		{QuestionID: "q2"},
		{QuestionID: "q3"},
	}

	result, err := Grade(answers, questions)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	for _, a := range result.GradedAnswers {
		if a.Status != models.GradingIncorrect {
			t.Errorf("answer %s status = %s, want incorrect", a.QuestionID, a.Status)
		}
	}
}

func TestGrade_EmptySubmission(t *testing.T) {
	result, err := Grade(nil, []models.Question{trueFalseQuestion(t, "q1", 5, true)})
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	if result.Score != 0 || result.MaxScore != 0 {
		t.Errorf("Score/MaxScore = %v/%d, want 0/0", result.Score, result.MaxScore)
	}
	if result.Percentage() != 0 {
		t.Errorf("Percentage = %d, want 0", result.Percentage())
	}
}

func TestAggregateScore(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", PointsEarned: 10},
		{QuestionID: "q2", PointsEarned: 7.5},
		{QuestionID: "q3", PointsEarned: 0},
	}
	if got := AggregateScore(answers); got != 17.5 {
		t.Errorf("AggregateScore = %v, want 17.5", got)
	}
	if got := AggregateScore(nil); got != 0 {
		t.Errorf("AggregateScore(nil) = %v, want 0", got)
	}
}
