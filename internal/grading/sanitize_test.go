package grading

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

func decodeContent(t *testing.T, q models.Question) map[string]any {
	t.Helper()
	var content map[string]any
	if err := json.Unmarshal(q.Content, &content); err != nil {
		t.Fatalf("decode sanitized content: %v", err)
	}
	return content
}

func TestSanitize_ViewFullLeavesContentUntouched(t *testing.T) {
	question := multipleChoiceQuestion(t, "q1", 10, "a")

	sanitized, err := Sanitize(question, ViewFull)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}
	if !bytes.Equal(sanitized.Content, question.Content) {
		t.Error("ViewFull should not modify content")
	}
}

func TestSanitize_MultipleChoiceStripsCorrectFlag(t *testing.T) {
	question := multipleChoiceQuestion(t, "q1", 10, "b")

	sanitized, err := Sanitize(question, ViewQuiz)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}

	content := decodeContent(t, sanitized)
	options, ok := content["options"].([]any)
	if !ok || len(options) != 3 {
		t.Fatalf("options missing or wrong length after sanitize: %v", content["options"])
	}
	for _, raw := range options {
		opt := raw.(map[string]any)
		if _, present := opt["is_correct"]; present {
			t.Error("is_correct must be stripped from options")
		}
		if opt["text"] == "" {
			t.Error("option text must survive sanitization")
		}
	}
}

func TestSanitize_TrueFalseStripsAnswer(t *testing.T) {
	sanitized, err := Sanitize(trueFalseQuestion(t, "q1", 5, true), ViewQuiz)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}
	if _, present := decodeContent(t, sanitized)["correct_answer"]; present {
		t.Error("correct_answer must be stripped")
	}
}

func TestSanitize_FillBlankStripsAcceptedAnswers(t *testing.T) {
	sanitized, err := Sanitize(fillBlankQuestion(t, "q1", 5, []string{"gopher"}, true), ViewQuiz)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}

	content := decodeContent(t, sanitized)
	if _, present := content["correct_answers"]; present {
		t.Error("correct_answers must be stripped")
	}
	if _, present := content["case_sensitive"]; present {
		t.Error("case_sensitive must be stripped")
	}
}

func TestSanitize_CodeChallengeByCapability(t *testing.T) {
	question := codeQuestion(t, "q1", 30)

	t.Run("quiz view keeps inputs only", func(t *testing.T) {
		sanitized, err := Sanitize(question, ViewQuiz)
		if err != nil {
			t.Fatalf("Sanitize returned error: %v", err)
		}

		content := decodeContent(t, sanitized)
		if _, present := content["solution"]; present {
			t.Error("solution must be stripped")
		}
		cases, ok := content["test_cases"].([]any)
		if !ok || len(cases) == 0 {
			t.Fatal("quiz view must keep test cases")
		}
		tc := cases[0].(map[string]any)
		if _, present := tc["expected_output"]; present {
			t.Error("expected_output must be stripped from test cases")
		}
		if tc["input"] != "1 2" {
			t.Errorf("test case input = %v, want \"1 2\"", tc["input"])
		}
	})

	t.Run("attempt view hides the suite", func(t *testing.T) {
		sanitized, err := Sanitize(question, ViewAttempt)
		if err != nil {
			t.Fatalf("Sanitize returned error: %v", err)
		}

		content := decodeContent(t, sanitized)
		if _, present := content["test_cases"]; present {
			t.Error("attempt view must strip test_cases entirely")
		}
		if _, present := content["solution"]; present {
			t.Error("solution must be stripped")
		}
		if content["starter_code"] == nil {
			t.Error("starter_code must survive for the learner")
		}
	})
}

func TestSanitize_Idempotent(t *testing.T) {
	questions := []models.Question{
		multipleChoiceQuestion(t, "q1", 10, "a"),
		trueFalseQuestion(t, "q2", 5, false),
		fillBlankQuestion(t, "q3", 5, []string{"x"}, false),
		codeQuestion(t, "q4", 30),
		essayQuestion(t, "q5", 20),
	}

	for _, capability := range []Capability{ViewQuiz, ViewAttempt} {
		once, err := SanitizeAll(questions, capability)
		if err != nil {
			t.Fatalf("first sanitize: %v", err)
		}
		twice, err := SanitizeAll(once, capability)
		if err != nil {
			t.Fatalf("second sanitize: %v", err)
		}
		for i := range once {
			// Stripped fields can never reappear, so a second pass is a no-op
			var a, b map[string]any
			if err := json.Unmarshal(once[i].Content, &a); err != nil {
				t.Fatalf("decode once: %v", err)
			}
			if err := json.Unmarshal(twice[i].Content, &b); err != nil {
				t.Fatalf("decode twice: %v", err)
			}
			if len(a) != len(b) {
				t.Errorf("question %s: second sanitize changed content", once[i].ID)
			}
		}
	}
}

func TestSanitize_UnknownTypeFails(t *testing.T) {
	question := models.Question{
		ID:      "q1",
		Type:    "matching",
		Content: json.RawMessage(`{}`),
	}
	if _, err := Sanitize(question, ViewQuiz); err == nil {
		t.Error("expected error for unsupported question type")
	}
}
