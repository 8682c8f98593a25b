package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

func newRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
}

// ===== LESSON =====

type lessonHTTPClient struct {
	client *resty.Client
}

func NewLessonClient(baseURL string) LessonClient {
	return &lessonHTTPClient{client: newRestyClient(baseURL)}
}

func (c *lessonHTTPClient) FindByID(ctx context.Context, lessonID string) (*Lesson, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("lessonId", lessonID).
		Get("/internal/lessons/{lessonId}")
	if err != nil {
		return nil, fmt.Errorf("lesson lookup failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var lesson Lesson
		if err := json.Unmarshal(resp.Body(), &lesson); err != nil {
			return nil, fmt.Errorf("invalid lesson response: %w", err)
		}
		return &lesson, nil
	case http.StatusNotFound:
		return nil, ErrLessonNotFound
	default:
		return nil, fmt.Errorf("lesson lookup returned status %d", resp.StatusCode())
	}
}

// ===== ENROLLMENT =====

type enrollmentHTTPClient struct {
	client *resty.Client
}

func NewEnrollmentClient(baseURL string) EnrollmentClient {
	return &enrollmentHTTPClient{client: newRestyClient(baseURL)}
}

func (c *enrollmentHTTPClient) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user_id":   userID,
			"course_id": courseID,
		}).
		Get("/internal/enrollments/lookup")
	if err != nil {
		return nil, fmt.Errorf("enrollment lookup failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var enrollment Enrollment
		if err := json.Unmarshal(resp.Body(), &enrollment); err != nil {
			return nil, fmt.Errorf("invalid enrollment response: %w", err)
		}
		return &enrollment, nil
	case http.StatusNotFound:
		return nil, ErrEnrollmentNotFound
	default:
		return nil, fmt.Errorf("enrollment lookup returned status %d", resp.StatusCode())
	}
}

// ===== COURSE PROGRESS =====

type progressHTTPClient struct {
	client *resty.Client
}

func NewProgressClient(baseURL string) ProgressClient {
	return &progressHTTPClient{client: newRestyClient(baseURL)}
}

func (c *progressHTTPClient) CompleteLesson(ctx context.Context, userID, lessonID string) (*CompletionResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"user_id":   userID,
			"lesson_id": lessonID,
		}).
		Post("/internal/progress/complete-lesson")
	if err != nil {
		return nil, fmt.Errorf("complete lesson call failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		var result CompletionResult
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return nil, fmt.Errorf("invalid completion response: %w", err)
		}
		return &result, nil
	case http.StatusConflict:
		return nil, ErrLessonAlreadyCompleted
	default:
		return nil, fmt.Errorf("complete lesson returned status %d", resp.StatusCode())
	}
}
