package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
)

// InitDatabase opens the relational store and migrates the quiz tables.
// TranslateError is on so duplicate-key failures surface as
// gorm.ErrDuplicatedKey regardless of driver.
func InitDatabase(databaseURL, environment string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if environment == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&models.Quiz{},
		&models.QuizAttempt{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// InitDocumentDatabase opens the document store holding question and answer
// documents. It may be the same physical database as the relational store,
// but the code never assumes that.
func InitDocumentDatabase(databaseURL, environment string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if environment == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.QuestionDocument{},
		&models.AnswerDocument{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate document database: %w", err)
	}

	return db, nil
}
