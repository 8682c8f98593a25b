package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type reportService struct {
	repo    repositories.Repository
	db      *gorm.DB
	logger  *slog.Logger
	quizzes QuizService
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, quizzes QuizService) ReportService {
	return &reportService{
		repo:    repo,
		db:      db,
		logger:  logger,
		quizzes: quizzes,
	}
}

var reportHeaders = []string{
	"Attempt ID", "User ID", "Status", "Score", "Max Score", "Percentage", "Passed", "Started At", "Submitted At",
}

// ExportQuizAttempts renders every attempt of a quiz into an XLSX workbook
// for instructor download.
func (s *reportService) ExportQuizAttempts(ctx context.Context, quizID string, actor Actor) ([]byte, string, error) {
	s.logger.Info("Exporting quiz attempts", "quiz_id", quizID, "user_id", actor.ID)

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrQuizNotFound
		}
		return nil, "", fmt.Errorf("failed to get quiz: %w", err)
	}

	canExport, err := s.quizzes.CanEdit(ctx, quiz, actor)
	if err != nil {
		return nil, "", err
	}
	if !canExport {
		return nil, "", NewPermissionError(actor.ID, quizID, "quiz", "export_attempts", "not course instructor")
	}

	// Pull everything; exports are unpaginated
	attempts, _, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID, repositories.AttemptFilters{
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list attempts: %w", err)
	}

	data, err := buildAttemptsWorkbook(quiz, attempts)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("quiz-attempts-%s-%s.xlsx", quizID, time.Now().Format("20060102-150405"))

	s.logger.Info("Quiz attempts exported",
		"quiz_id", quizID,
		"attempts_count", len(attempts),
		"filename", filename)

	return data, filename, nil
}

func buildAttemptsWorkbook(quiz *models.Quiz, attempts []*models.QuizAttempt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attempts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, attempt := range attempts {
		status := "submitted"
		submittedAt := ""
		if attempt.InProgress() {
			status = "in_progress"
		} else {
			submittedAt = attempt.SubmittedAt.Format(time.RFC3339)
		}

		values := []interface{}{
			attempt.ID,
			attempt.UserID,
			status,
			attempt.Score,
			attempt.MaxScore,
			attempt.ScorePercentage(),
			attempt.Passed,
			attempt.StartedAt.Format(time.RFC3339),
			submittedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	// Summary footer row with the quiz's passing bar for context
	footer := fmt.Sprintf("Quiz: %s (passing score %d%%), %d attempts", quiz.Title, quiz.PassingScore, len(attempts))
	cell, _ := excelize.CoordinatesToCellName(1, len(attempts)+3)
	if err := f.SetCellValue(sheet, cell, footer); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
