package repository

import (
	"context"

	"github.com/vytor/torii/internal/models"
)

// ResultRepository handles finished quiz results
type ResultRepository interface {
	Insert(ctx context.Context, result models.QuizResult) (int64, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error)
	Stats(ctx context.Context, studySetID string) (*models.QuizStats, error)
}
