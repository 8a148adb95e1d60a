package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/torii/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Get(ctx context.Context, entryID int64) (*models.CardReview, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardReview), args.Error(1)
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review models.CardReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Due(ctx context.Context, notebookID int64, now time.Time, limit int) ([]models.DueCard, error) {
	args := m.Called(ctx, notebookID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueCard), args.Error(1)
}

func (m *MockReviewRepository) InsertHistory(ctx context.Context, entryID int64, quality int, reviewedAt time.Time) error {
	args := m.Called(ctx, entryID, quality, reviewedAt)
	return args.Error(0)
}
