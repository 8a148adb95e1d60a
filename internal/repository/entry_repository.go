package repository

import (
	"context"

	"github.com/vytor/torii/internal/models"
)

// EntryRepository handles vocabulary entry data access
type EntryRepository interface {
	Insert(ctx context.Context, entry models.VocabularyEntry) (int64, error)
	// InsertBatch inserts entries in one transaction, skipping ones the
	// notebook already holds, and returns the ids of new rows.
	InsertBatch(ctx context.Context, notebookID int64, entries []models.VocabularyEntry) ([]int64, error)
	List(ctx context.Context, filter models.EntryFilter) ([]models.VocabularyEntry, error)
	Count(ctx context.Context, filter models.EntryFilter) (int, error)
	Delete(ctx context.Context, notebookID, id int64) error
}
