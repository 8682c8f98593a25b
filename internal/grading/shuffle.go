package grading

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// ShuffleQuestions returns a fresh Fisher-Yates permutation of the question
// list. The order is generated per call and never persisted, so two reads of
// the same open attempt may see different orders.
func ShuffleQuestions(questions []models.Question) []models.Question {
	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// ShuffleOptions independently permutes each multiple choice question's
// option list. The content is reordered as raw JSON so it composes with
// Sanitize in either order. Other variants pass through unchanged.
func ShuffleOptions(questions []models.Question) ([]models.Question, error) {
	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)

	for i, q := range shuffled {
		if q.Type != models.MultipleChoice {
			continue
		}

		var content map[string]any
		if err := json.Unmarshal(q.Content, &content); err != nil {
			return nil, fmt.Errorf("decode content for question %s: %w", q.ID, err)
		}
		options, ok := content["options"].([]any)
		if !ok {
			continue
		}
		rand.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})
		content["options"] = options

		encoded, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("encode content for question %s: %w", q.ID, err)
		}
		shuffled[i].Content = encoded
	}
	return shuffled, nil
}
