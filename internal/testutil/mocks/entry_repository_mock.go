package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/torii/internal/models"
)

// MockEntryRepository is a mock implementation of repository.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Insert(ctx context.Context, entry models.VocabularyEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) InsertBatch(ctx context.Context, notebookID int64, entries []models.VocabularyEntry) ([]int64, error) {
	args := m.Called(ctx, notebookID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, filter models.EntryFilter) ([]models.VocabularyEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VocabularyEntry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter models.EntryFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) Delete(ctx context.Context, notebookID, id int64) error {
	args := m.Called(ctx, notebookID, id)
	return args.Error(0)
}
