package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging.
// Invalidation is best effort: a failure leaves a stale entry for at most
// the TTL window, which this domain accepts.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateQuizCache drops the quiz entries keyed by id and by owning
// lesson. Called on any quiz or question mutation.
func InvalidateQuizCache(ctx context.Context, cm *CacheManager, quizID, lessonID string) {
	SafeDelete(ctx, cm.Quiz,
		fmt.Sprintf("id:%s", quizID),
		fmt.Sprintf("lesson:%s", lessonID))
}

// InvalidateAttemptCache drops the open-attempt entry for a (quiz, user)
// pair. Called after submit and after manual grading.
func InvalidateAttemptCache(ctx context.Context, cm *CacheManager, quizID, userID string) {
	SafeDelete(ctx, cm.Attempt, fmt.Sprintf("%s:%s", quizID, userID))
}
