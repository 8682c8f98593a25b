package postgres

import (
	"context"
	"fmt"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/cache"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewAttemptPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AttemptPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create inserts the attempt row. When another open attempt exists for the
// same (quiz, user), the partial unique index rejects the insert and the
// duplicate-key error surfaces to the caller.
func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(attempt).Error; err != nil {
		return err
	}
	cache.InvalidateAttemptCache(ctx, a.cacheManager, attempt.QuizID, attempt.UserID)
	return nil
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.QuizAttempt, error) {
	db := a.getDB(tx)
	var attempt models.QuizAttempt
	if err := db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Update(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Save(attempt).Error; err != nil {
		return err
	}
	cache.InvalidateAttemptCache(ctx, a.cacheManager, attempt.QuizID, attempt.UserID)
	return nil
}

func (a *AttemptPostgreSQL) GetOpenAttempt(ctx context.Context, tx *gorm.DB, quizID, userID string) (*models.QuizAttempt, error) {
	db := a.getDB(tx)

	cacheKey := fmt.Sprintf("%s:%s", quizID, userID)
	var attempt models.QuizAttempt
	err := a.cacheManager.Attempt.CacheOrExecute(ctx, cacheKey, &attempt, cache.AttemptCacheConfig.TTL, func() (interface{}, error) {
		var dbAttempt models.QuizAttempt
		if err := db.WithContext(ctx).
			Where("quiz_id = ? AND user_id = ? AND submitted_at IS NULL", quizID, userID).
			First(&dbAttempt).Error; err != nil {
			return nil, err
		}
		return &dbAttempt, nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) CountSubmitted(ctx context.Context, tx *gorm.DB, quizID, userID string) (int64, error) {
	db := a.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ? AND submitted_at IS NOT NULL", quizID, userID).
		Count(&count).Error
	return count, err
}

func (a *AttemptPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	db := a.getDB(tx)
	query := db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("user_id = ?", userID)
	return a.list(query, filters)
}

func (a *AttemptPostgreSQL) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	db := a.getDB(tx)
	query := db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("quiz_id = ?", quizID)
	return a.list(query, filters)
}

func (a *AttemptPostgreSQL) ListIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID string) ([]string, error) {
	db := a.getDB(tx)
	var ids []string
	err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Pluck("id", &ids).Error
	return ids, err
}

func (a *AttemptPostgreSQL) list(query *gorm.DB, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	var attempts []*models.QuizAttempt
	var total int64

	// apply filter first
	query = a.helpers.ApplyAttemptFilters(query, filters)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}
