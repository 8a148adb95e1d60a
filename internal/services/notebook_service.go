package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/vocabulary"
)

const maxEntryPageSize = 500

// DeckCatalog lists bundled decks. *vocabulary.DeckSource implements it.
type DeckCatalog interface {
	Decks() []models.Deck
	Entries(name string) ([]models.VocabularyEntry, bool)
}

// EntryPage is one page of a notebook's entries.
type EntryPage struct {
	Entries []models.VocabularyEntry `json:"entries"`
	Total   int                      `json:"total"`
}

// NotebookService handles notebooks, their entries and the bundled decks
type NotebookService interface {
	CreateNotebook(ctx context.Context, title string) (*models.Notebook, error)
	GetNotebook(ctx context.Context, id int64) (*models.Notebook, error)
	ListNotebooks(ctx context.Context) ([]models.Notebook, error)
	DeleteNotebook(ctx context.Context, id int64) error
	AddEntry(ctx context.Context, notebookID int64, entry models.VocabularyEntry) (*models.VocabularyEntry, error)
	AddEntries(ctx context.Context, notebookID int64, entries []models.VocabularyEntry) (int, error)
	RemoveEntry(ctx context.Context, notebookID, entryID int64) error
	ListEntries(ctx context.Context, filter models.EntryFilter) (*EntryPage, error)
	ListDecks(ctx context.Context) []models.Deck
	DeckEntries(ctx context.Context, name, query string) ([]models.VocabularyEntry, error)
}

type notebookService struct {
	notebooks repository.NotebookRepository
	entries   repository.EntryRepository
	decks     DeckCatalog
}

// NewNotebookService creates a new NotebookService
func NewNotebookService(notebooks repository.NotebookRepository, entries repository.EntryRepository, decks DeckCatalog) NotebookService {
	return &notebookService{notebooks: notebooks, entries: entries, decks: decks}
}

func (s *notebookService) CreateNotebook(ctx context.Context, title string) (*models.Notebook, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating notebook: title=%s", title)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	notebook, err := s.notebooks.Create(ctx, title)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError(fmt.Sprintf("notebook %q already exists", title), err)
		}
		log.Error("failed to create notebook: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return notebook, nil
}

func (s *notebookService) GetNotebook(ctx context.Context, id int64) (*models.Notebook, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting notebook: id=%d", id)

	notebook, err := s.notebooks.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("notebook", id)
		}
		log.Error("failed to get notebook: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return notebook, nil
}

func (s *notebookService) ListNotebooks(ctx context.Context) ([]models.Notebook, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing notebooks")

	notebooks, err := s.notebooks.List(ctx)
	if err != nil {
		log.Error("failed to list notebooks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return notebooks, nil
}

func (s *notebookService) DeleteNotebook(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting notebook: id=%d", id)

	if err := s.notebooks.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("notebook", id)
		}
		log.Error("failed to delete notebook: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// normalizeEntry trims e and names the first required field left empty.
func normalizeEntry(e models.VocabularyEntry) (models.VocabularyEntry, string) {
	e.Expression = strings.TrimSpace(e.Expression)
	e.Reading = strings.TrimSpace(e.Reading)
	e.Meaning = strings.TrimSpace(e.Meaning)
	switch {
	case e.Expression == "":
		return e, "expression"
	case e.Meaning == "":
		return e, "meaning"
	}
	return e, ""
}

func (s *notebookService) AddEntry(ctx context.Context, notebookID int64, entry models.VocabularyEntry) (*models.VocabularyEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding entry to notebook %d: expression=%s", notebookID, entry.Expression)

	entry, missing := normalizeEntry(entry)
	if missing != "" {
		return nil, errors.NewValidationError(missing, "cannot be empty")
	}
	if _, err := s.GetNotebook(ctx, notebookID); err != nil {
		return nil, err
	}

	entry.NotebookID = notebookID
	id, err := s.entries.Insert(ctx, entry)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("entry already exists in this notebook", err)
		}
		log.Error("failed to add entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	entry.ID = id
	return &entry, nil
}

// AddEntries imports entries in bulk and returns how many were new.
func (s *notebookService) AddEntries(ctx context.Context, notebookID int64, entries []models.VocabularyEntry) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding %d entries to notebook %d", len(entries), notebookID)

	clean := make([]models.VocabularyEntry, 0, len(entries))
	for i, e := range entries {
		e, missing := normalizeEntry(e)
		if missing != "" {
			return 0, errors.NewValidationError(fmt.Sprintf("entries[%d].%s", i, missing), "cannot be empty")
		}
		clean = append(clean, e)
	}
	if _, err := s.GetNotebook(ctx, notebookID); err != nil {
		return 0, err
	}

	ids, err := s.entries.InsertBatch(ctx, notebookID, clean)
	if err != nil {
		log.Error("failed to add entries: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("imported %d of %d entries into notebook %d", len(ids), len(entries), notebookID)
	return len(ids), nil
}

func (s *notebookService) RemoveEntry(ctx context.Context, notebookID, entryID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("removing entry %d from notebook %d", entryID, notebookID)

	if err := s.entries.Delete(ctx, notebookID, entryID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("entry", entryID)
		}
		log.Error("failed to remove entry: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *notebookService) ListEntries(ctx context.Context, filter models.EntryFilter) (*EntryPage, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing entries: notebook_id=%d, query=%q", filter.NotebookID, filter.Query)

	if filter.Limit < 0 || filter.Limit > maxEntryPageSize {
		return nil, errors.NewValidationError("limit", fmt.Sprintf("must be between 0 and %d", maxEntryPageSize))
	}
	if filter.Offset < 0 {
		return nil, errors.NewValidationError("offset", "cannot be negative")
	}
	if _, err := s.GetNotebook(ctx, filter.NotebookID); err != nil {
		return nil, err
	}

	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		log.Error("failed to list entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.entries.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.VocabularyEntry{}
	}
	return &EntryPage{Entries: entries, Total: total}, nil
}

func (s *notebookService) ListDecks(ctx context.Context) []models.Deck {
	logger.FromContext(ctx).Debug("listing decks")
	return s.decks.Decks()
}

func (s *notebookService) DeckEntries(ctx context.Context, name, query string) ([]models.VocabularyEntry, error) {
	logger.FromContext(ctx).Debug("listing deck entries: deck=%s, query=%q", name, query)

	entries, ok := s.decks.Entries(name)
	if !ok {
		return nil, errors.NewNotFoundError("deck", name)
	}
	found := vocabulary.Search(entries, query)
	if found == nil {
		found = []models.VocabularyEntry{}
	}
	return found, nil
}
