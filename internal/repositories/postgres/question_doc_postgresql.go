package postgres

import (
	"context"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionDocPostgreSQL stores each quiz's question list as one JSONB row.
// It holds its own connection and never joins a relational transaction;
// cross-store consistency is handled by write ordering in the services.
type QuestionDocPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionDocPostgreSQL(db *gorm.DB) repositories.QuestionDocumentRepository {
	return &QuestionDocPostgreSQL{db: db}
}

func (q *QuestionDocPostgreSQL) Create(ctx context.Context, doc *models.QuestionDocument) error {
	return q.db.WithContext(ctx).Create(doc).Error
}

func (q *QuestionDocPostgreSQL) Get(ctx context.Context, quizID string) (*models.QuestionDocument, error) {
	var doc models.QuestionDocument
	if err := q.db.WithContext(ctx).Where("quiz_id = ?", quizID).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (q *QuestionDocPostgreSQL) Save(ctx context.Context, doc *models.QuestionDocument) error {
	return q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"questions", "updated_at"}),
		}).
		Create(doc).Error
}

func (q *QuestionDocPostgreSQL) Delete(ctx context.Context, quizID string) error {
	return q.db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.QuestionDocument{}).Error
}
