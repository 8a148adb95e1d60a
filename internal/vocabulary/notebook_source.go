package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/study"
)

// NotebookSource resolves decimal notebook ids to their stored entries.
type NotebookSource struct {
	notebooks repository.NotebookRepository
	entries   repository.EntryRepository
}

func NewNotebookSource(notebooks repository.NotebookRepository, entries repository.EntryRepository) *NotebookSource {
	return &NotebookSource{notebooks: notebooks, entries: entries}
}

func (s *NotebookSource) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_source")

	id, err := strconv.ParseInt(studySetID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("notebook id %q: %w", studySetID, study.ErrUnknownStudySet)
	}

	if _, err := s.notebooks.Get(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notebook %d: %w", id, study.ErrUnknownStudySet)
		}
		return nil, err
	}

	entries, err := s.entries.List(ctx, models.EntryFilter{NotebookID: id})
	if err != nil {
		log.Error("failed to list entries of notebook %d: %v", id, err)
		return nil, err
	}
	log.Debug("fetched %d entries from notebook %d", len(entries), id)
	return entries, nil
}
