package repository

import (
	"context"

	"github.com/vytor/torii/internal/models"
)

// NotebookRepository handles notebook data access
type NotebookRepository interface {
	Create(ctx context.Context, title string) (*models.Notebook, error)
	Get(ctx context.Context, id int64) (*models.Notebook, error)
	List(ctx context.Context) ([]models.Notebook, error)
	Delete(ctx context.Context, id int64) error
}
