package grading

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

func TestShuffleQuestions_PreservesSet(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "a"),
		trueFalseQuestion(t, "q2", 5, true),
		fillBlankQuestion(t, "q3", 5, []string{"x"}, false),
		essayQuestion(t, "q4", 20),
	}

	shuffled := ShuffleQuestions(questions)
	if len(shuffled) != len(questions) {
		t.Fatalf("length = %d, want %d", len(shuffled), len(questions))
	}

	seen := make(map[string]bool, len(shuffled))
	for _, q := range shuffled {
		seen[q.ID] = true
	}
	for _, q := range questions {
		if !seen[q.ID] {
			t.Errorf("question %s lost in shuffle", q.ID)
		}
	}

	// The input slice must stay in its original order
	for i, id := range []string{"q1", "q2", "q3", "q4"} {
		if questions[i].ID != id {
			t.Errorf("input slice mutated at %d: %s", i, questions[i].ID)
		}
	}
}

func TestShuffleOptions_PreservesOptionSet(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "b"),
	}

	shuffled, err := ShuffleOptions(questions)
	if err != nil {
		t.Fatalf("ShuffleOptions returned error: %v", err)
	}

	var content models.MultipleChoiceContent
	if err := json.Unmarshal(shuffled[0].Content, &content); err != nil {
		t.Fatalf("decode shuffled content: %v", err)
	}
	if len(content.Options) != 3 {
		t.Fatalf("options length = %d, want 3", len(content.Options))
	}

	seen := make(map[string]bool)
	correctCount := 0
	for _, opt := range content.Options {
		seen[opt.OptionID] = true
		if opt.IsCorrect {
			correctCount++
		}
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("option %s lost in shuffle", id)
		}
	}
	if correctCount != 1 {
		t.Errorf("correct option count = %d, want 1", correctCount)
	}
}

func TestShuffleOptions_NonChoiceVariantsUntouched(t *testing.T) {
	questions := []models.Question{
		trueFalseQuestion(t, "q1", 5, true),
		codeQuestion(t, "q2", 30),
	}

	shuffled, err := ShuffleOptions(questions)
	if err != nil {
		t.Fatalf("ShuffleOptions returned error: %v", err)
	}
	for i := range questions {
		if !bytes.Equal(shuffled[i].Content, questions[i].Content) {
			t.Errorf("question %s content changed", questions[i].ID)
		}
	}
}
