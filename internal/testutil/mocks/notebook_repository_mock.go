package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/torii/internal/models"
)

// MockNotebookRepository is a mock implementation of repository.NotebookRepository
type MockNotebookRepository struct {
	mock.Mock
}

func (m *MockNotebookRepository) Create(ctx context.Context, title string) (*models.Notebook, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) Get(ctx context.Context, id int64) (*models.Notebook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) List(ctx context.Context) ([]models.Notebook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
