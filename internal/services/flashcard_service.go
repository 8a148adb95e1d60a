package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/srs"
	"github.com/vytor/torii/internal/study"
)

// FlashcardSession is a live flashcard deck and its current state.
type FlashcardSession struct {
	ID    string               `json:"id"`
	State study.FlashcardState `json:"state"`
}

// ReviewOutcome is the new schedule of the reviewed card.
type ReviewOutcome struct {
	Session FlashcardSession  `json:"session"`
	Review  models.CardReview `json:"review"`
}

// FlashcardService handles flashcard decks and their review schedules
type FlashcardService interface {
	Start(ctx context.Context, studySetID string) (*FlashcardSession, error)
	State(ctx context.Context, id string) (*FlashcardSession, error)
	Flip(ctx context.Context, id string) (*FlashcardSession, error)
	Next(ctx context.Context, id string) (*FlashcardSession, error)
	Previous(ctx context.Context, id string) (*FlashcardSession, error)
	Shuffle(ctx context.Context, id string) (*FlashcardSession, error)
	MarkKnown(ctx context.Context, id string) (*FlashcardSession, error)
	Review(ctx context.Context, id string, quality int) (*ReviewOutcome, error)
	DueCards(ctx context.Context, notebookID int64, limit int) ([]models.DueCard, error)
	Close(ctx context.Context, id string) error
	Reap(ctx context.Context, ttl time.Duration) int
	Shutdown(ctx context.Context)
}

type flashcardService struct {
	source   study.VocabularySource
	reviews  repository.ReviewRepository
	sessions *registry[*study.Navigator]
	now      func() time.Time
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(source study.VocabularySource, reviews repository.ReviewRepository) FlashcardService {
	return &flashcardService{
		source:   source,
		reviews:  reviews,
		sessions: newRegistry[*study.Navigator](time.Now),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *flashcardService) Start(ctx context.Context, studySetID string) (*FlashcardSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting flashcards: study_set=%s", studySetID)

	studySetID = strings.TrimSpace(studySetID)
	if studySetID == "" {
		return nil, errors.NewValidationError("study_set_id", "cannot be empty")
	}

	id := uuid.NewString()
	nav := study.NewNavigator(s.source,
		study.WithNavigatorLogger(logger.Default().WithPrefix("flashcards").WithField("session", id)))

	err := nav.Load(ctx, studySetID)
	if stderrors.Is(err, study.ErrUnknownStudySet) {
		nav.Close()
		return nil, errors.FromStudyError(err)
	}
	if err != nil {
		log.Warn("flashcards %s loaded with error: %v", id, err)
	}

	s.sessions.add(id, nav)
	return &FlashcardSession{ID: id, State: nav.State()}, nil
}

func (s *flashcardService) lookup(id string) (*study.Navigator, error) {
	nav, ok := s.sessions.get(id)
	if !ok {
		return nil, errors.NewNotFoundError("flashcard session", id)
	}
	return nav, nil
}

// apply runs a navigator operation on the session with the given id.
func (s *flashcardService) apply(ctx context.Context, id, op string, fn func(*study.Navigator) study.FlashcardState) (*FlashcardSession, error) {
	logger.FromContext(ctx).Debug("flashcards %s: id=%s", op, id)

	nav, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &FlashcardSession{ID: id, State: fn(nav)}, nil
}

func (s *flashcardService) State(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "state", (*study.Navigator).State)
}

func (s *flashcardService) Flip(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "flip", (*study.Navigator).Flip)
}

func (s *flashcardService) Next(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "next", (*study.Navigator).Next)
}

func (s *flashcardService) Previous(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "previous", (*study.Navigator).Previous)
}

func (s *flashcardService) Shuffle(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "shuffle", (*study.Navigator).Shuffle)
}

func (s *flashcardService) MarkKnown(ctx context.Context, id string) (*FlashcardSession, error) {
	return s.apply(ctx, id, "mark known", (*study.Navigator).MarkKnown)
}

// Review grades the current card and reschedules it. Only cards backed by a
// stored notebook entry have a schedule.
func (s *flashcardService) Review(ctx context.Context, id string, quality int) (*ReviewOutcome, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing flashcard: id=%s, quality=%d", id, quality)

	if err := srs.ValidQuality(quality); err != nil {
		return nil, errors.NewValidationError("quality", "must be between 0 and 3")
	}

	nav, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	card, ok := nav.Current()
	if !ok {
		return nil, errors.NewConflictError("no card to review", nil)
	}
	if card.EntryID == 0 {
		return nil, errors.NewBadRequestError("only notebook cards can be scheduled for review")
	}

	now := s.now()
	review, err := s.reviews.Get(ctx, card.EntryID)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		fresh := srs.NewReview(card.EntryID, now)
		review = &fresh
	case err != nil:
		log.Error("failed to load review schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}

	updated := srs.ApplyReview(*review, quality, now)
	if err := s.reviews.Upsert(ctx, updated); err != nil {
		log.Error("failed to save review schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if err := s.reviews.InsertHistory(ctx, card.EntryID, quality, now); err != nil {
		log.Error("failed to record review history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("card %d rescheduled in %d days", card.EntryID, updated.IntervalDays)
	return &ReviewOutcome{
		Session: FlashcardSession{ID: id, State: nav.State()},
		Review:  updated,
	}, nil
}

func (s *flashcardService) DueCards(ctx context.Context, notebookID int64, limit int) ([]models.DueCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing due cards: notebook_id=%d, limit=%d", notebookID, limit)

	if notebookID <= 0 {
		return nil, errors.NewValidationError("notebook_id", "must be a positive integer")
	}
	cards, err := s.reviews.Due(ctx, notebookID, s.now(), limit)
	if err != nil {
		log.Error("failed to list due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *flashcardService) Close(ctx context.Context, id string) error {
	logger.FromContext(ctx).Debug("closing flashcards: id=%s", id)

	nav, ok := s.sessions.remove(id)
	if !ok {
		return errors.NewNotFoundError("flashcard session", id)
	}
	nav.Close()
	return nil
}

func (s *flashcardService) Reap(ctx context.Context, ttl time.Duration) int {
	expired := s.sessions.expire(ttl)
	for _, nav := range expired {
		nav.Close()
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info("reaped %d idle flashcard sessions", len(expired))
	}
	return len(expired)
}

func (s *flashcardService) Shutdown(ctx context.Context) {
	sessions := s.sessions.drain()
	for _, nav := range sessions {
		nav.Close()
	}
	logger.FromContext(ctx).Info("closed %d flashcard sessions", len(sessions))
}
