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

type QuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	db := q.getDB(tx)

	cacheKey := fmt.Sprintf("id:%s", id)
	var quiz models.Quiz
	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := db.WithContext(ctx).Where("id = ?", id).First(&dbQuiz).Error; err != nil {
			return nil, err
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Quiz, error) {
	db := q.getDB(tx)

	cacheKey := fmt.Sprintf("lesson:%s", lessonID)
	var quiz models.Quiz
	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&dbQuiz).Error; err != nil {
			return nil, err
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) ExistsByLesson(ctx context.Context, tx *gorm.DB, lessonID string) (bool, error) {
	db := q.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count > 0, err
}

func (q *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(quiz).Error; err != nil {
		return err
	}
	cache.InvalidateQuizCache(ctx, q.cacheManager, quiz.ID, quiz.LessonID)
	return nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := q.getDB(tx)

	quiz, err := q.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quiz{}).Error; err != nil {
		return err
	}
	cache.InvalidateQuizCache(ctx, q.cacheManager, quiz.ID, quiz.LessonID)
	return nil
}

func (q *QuizPostgreSQL) InvalidateCache(ctx context.Context, quizID, lessonID string) {
	cache.InvalidateQuizCache(ctx, q.cacheManager, quizID, lessonID)
}
