package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/srs"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/testutil"
	"github.com/vytor/torii/internal/testutil/mocks"
)

var reviewNow = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func newFlashcardFixture(t *testing.T) (*flashcardService, *mocks.MockVocabularySource, *mocks.MockReviewRepository) {
	t.Helper()
	source := new(mocks.MockVocabularySource)
	reviews := new(mocks.MockReviewRepository)
	svc := NewFlashcardService(source, reviews).(*flashcardService)
	svc.now = func() time.Time { return reviewNow }
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc, source, reviews
}

func storedKanji() []models.VocabularyEntry {
	entries := testutil.Kanji()
	for i := range entries {
		entries[i].ID = int64(i + 1)
		entries[i].NotebookID = 1
	}
	return entries
}

func TestFlashcardService_Navigation(t *testing.T) {
	ctx := context.Background()
	svc, source, _ := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(storedKanji(), nil)

	session, err := svc.Start(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, study.PhaseReady, session.State.Phase)
	assert.Equal(t, 5, session.State.TotalCards)

	flipped, err := svc.Flip(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, flipped.State.IsFlipped)

	next, err := svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.State.CurrentIndex)
	assert.False(t, next.State.IsFlipped)

	prev, err := svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, prev.State.CurrentIndex)

	known, err := svc.MarkKnown(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, known.State.Known)

	shuffled, err := svc.Shuffle(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, shuffled.State.CurrentIndex)
	assert.Equal(t, 1, shuffled.State.Known)

	state, err := svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, shuffled.State, state.State)
}

func TestFlashcardService_StartErrors(t *testing.T) {
	ctx := context.Background()
	svc, source, _ := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "404").Return(nil, study.ErrUnknownStudySet)
	source.On("Fetch", mock.Anything, "2").Return([]models.VocabularyEntry{}, nil)

	_, err := svc.Start(ctx, "")
	requireCode(t, err, apperrors.ErrCodeValidation)

	_, err = svc.Start(ctx, "404")
	requireCode(t, err, apperrors.ErrCodeNotFound)

	empty, err := svc.Start(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, study.PhaseError, empty.State.Phase)
	assert.Equal(t, "No vocabularies found in this notebook", empty.State.Message)

	_, err = svc.Flip(ctx, "missing")
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestFlashcardService_ReviewNewCard(t *testing.T) {
	ctx := context.Background()
	svc, source, reviews := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(storedKanji(), nil)

	session, err := svc.Start(ctx, "1")
	require.NoError(t, err)

	expected := srs.ApplyReview(srs.NewReview(1, reviewNow), srs.Good, reviewNow)
	reviews.On("Get", mock.Anything, int64(1)).Return(nil, sql.ErrNoRows)
	reviews.On("Upsert", mock.Anything, expected).Return(nil)
	reviews.On("InsertHistory", mock.Anything, int64(1), srs.Good, reviewNow).Return(nil)

	outcome, err := svc.Review(ctx, session.ID, srs.Good)
	require.NoError(t, err)
	assert.Equal(t, expected, outcome.Review)
	assert.Equal(t, session.ID, outcome.Session.ID)
	reviews.AssertExpectations(t)
}

func TestFlashcardService_ReviewExistingSchedule(t *testing.T) {
	ctx := context.Background()
	svc, source, reviews := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(storedKanji(), nil)

	session, err := svc.Start(ctx, "1")
	require.NoError(t, err)

	existing := models.CardReview{EntryID: 1, IntervalDays: 6, EaseFactor: 2.5, TimesReviewed: 2, TimesCorrect: 2}
	reviews.On("Get", mock.Anything, int64(1)).Return(&existing, nil)
	reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r models.CardReview) bool {
		return r.IntervalDays == 1 && r.TimesCorrect == 0 && r.TimesReviewed == 3
	})).Return(nil)
	reviews.On("InsertHistory", mock.Anything, int64(1), srs.Again, reviewNow).Return(nil)

	_, err = svc.Review(ctx, session.ID, srs.Again)
	require.NoError(t, err)
	reviews.AssertExpectations(t)
}

func TestFlashcardService_ReviewRejections(t *testing.T) {
	ctx := context.Background()
	svc, source, reviews := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "builtin:numbers").Return(testutil.Kanji(), nil)
	source.On("Fetch", mock.Anything, "1").Return(storedKanji(), nil)

	deck, err := svc.Start(ctx, "builtin:numbers")
	require.NoError(t, err)

	_, err = svc.Review(ctx, deck.ID, 9)
	requireCode(t, err, apperrors.ErrCodeValidation)

	_, err = svc.Review(ctx, deck.ID, srs.Good)
	requireCode(t, err, apperrors.ErrCodeBadRequest)

	notebook, err := svc.Start(ctx, "1")
	require.NoError(t, err)
	reviews.On("Get", mock.Anything, int64(1)).Return(nil, errors.New("disk"))
	_, err = svc.Review(ctx, notebook.ID, srs.Good)
	requireCode(t, err, apperrors.ErrCodeInternal)
}

func TestFlashcardService_DueCards(t *testing.T) {
	ctx := context.Background()
	svc, _, reviews := newFlashcardFixture(t)
	due := []models.DueCard{{VocabularyEntry: storedKanji()[0], Review: srs.NewReview(1, reviewNow)}}
	reviews.On("Due", mock.Anything, int64(1), reviewNow, 20).Return(due, nil)

	got, err := svc.DueCards(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, due, got)

	_, err = svc.DueCards(ctx, 0, 20)
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestFlashcardService_CloseAndReap(t *testing.T) {
	ctx := context.Background()
	svc, source, _ := newFlashcardFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(storedKanji(), nil)

	a, err := svc.Start(ctx, "1")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, a.ID))
	requireCode(t, svc.Close(ctx, a.ID), apperrors.ErrCodeNotFound)

	svc.sessions.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, svc.Reap(ctx, time.Minute))
	assert.Zero(t, svc.sessions.len())
}
