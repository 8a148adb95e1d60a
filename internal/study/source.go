package study

import (
	"context"

	"github.com/vytor/torii/internal/models"
)

// VocabularySource supplies the ordered entries of a study set.
type VocabularySource interface {
	Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error)
}

// SourceFunc adapts a function to VocabularySource.
type SourceFunc func(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error)

func (f SourceFunc) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	return f(ctx, studySetID)
}
