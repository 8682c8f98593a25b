package postgres

import (
	"context"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"gorm.io/gorm"
)

// AnswerDocPostgreSQL stores each attempt's answer list as one JSONB row in
// the document store.
type AnswerDocPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerDocPostgreSQL(db *gorm.DB) repositories.AnswerDocumentRepository {
	return &AnswerDocPostgreSQL{db: db}
}

// Create is a plain insert, not an upsert. A second submission for the same
// attempt never reaches this point because the attempt's in-progress check
// rejects it first.
func (a *AnswerDocPostgreSQL) Create(ctx context.Context, doc *models.AnswerDocument) error {
	return a.db.WithContext(ctx).Create(doc).Error
}

func (a *AnswerDocPostgreSQL) Get(ctx context.Context, attemptID string) (*models.AnswerDocument, error) {
	var doc models.AnswerDocument
	if err := a.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (a *AnswerDocPostgreSQL) Save(ctx context.Context, doc *models.AnswerDocument) error {
	return a.db.WithContext(ctx).Save(doc).Error
}

func (a *AnswerDocPostgreSQL) DeleteByAttempts(ctx context.Context, attemptIDs []string) error {
	if len(attemptIDs) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Where("attempt_id IN ?", attemptIDs).Delete(&models.AnswerDocument{}).Error
}
