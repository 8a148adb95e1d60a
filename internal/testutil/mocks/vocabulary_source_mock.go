package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/torii/internal/models"
)

// MockVocabularySource is a mock implementation of study.VocabularySource
type MockVocabularySource struct {
	mock.Mock
}

func (m *MockVocabularySource) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	args := m.Called(ctx, studySetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VocabularyEntry), args.Error(1)
}
