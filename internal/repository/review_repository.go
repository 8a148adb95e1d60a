package repository

import (
	"context"
	"time"

	"github.com/vytor/torii/internal/models"
)

// ReviewRepository handles spaced-repetition schedules
type ReviewRepository interface {
	Get(ctx context.Context, entryID int64) (*models.CardReview, error)
	Upsert(ctx context.Context, review models.CardReview) error
	// Due lists entries of a notebook due at now, never-reviewed entries included.
	Due(ctx context.Context, notebookID int64, now time.Time, limit int) ([]models.DueCard, error)
	InsertHistory(ctx context.Context, entryID int64, quality int, reviewedAt time.Time) error
}
