package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/repository/sqlite"
	"github.com/vytor/torii/internal/srs"
	"github.com/vytor/torii/internal/testutil"
)

type ReviewRepositorySuite struct {
	suite.Suite
	db         *sql.DB
	repo       repository.ReviewRepository
	notebookID int64
	entryIDs   []int64
	now        time.Time
}

func (s *ReviewRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReviewRepository(s.db)
	s.now = time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)

	n, err := sqlite.NewNotebookRepository(s.db).Create(ctx, "Elements")
	s.Require().NoError(err)
	s.notebookID = n.ID

	s.entryIDs, err = sqlite.NewEntryRepository(s.db).InsertBatch(ctx, n.ID, testutil.Kanji()[:3])
	s.Require().NoError(err)
	s.Require().Len(s.entryIDs, 3)
}

func (s *ReviewRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	id := s.entryIDs[0]

	_, err := s.repo.Get(ctx, id)
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	review := srs.ApplyReview(srs.NewReview(id, s.now), srs.Good, s.now)
	s.Require().NoError(s.repo.Upsert(ctx, review))

	review = srs.ApplyReview(review, srs.Good, s.now)
	s.Require().NoError(s.repo.Upsert(ctx, review))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(6, got.IntervalDays)
	s.Assert().Equal(2, got.TimesReviewed)
	s.Assert().InDelta(review.EaseFactor, got.EaseFactor, 1e-9)
	s.Assert().True(got.DueAt.Equal(s.now.Add(6 * 24 * time.Hour)))
}

func (s *ReviewRepositorySuite) TestDue() {
	ctx := context.Background()

	// Entry 0 is overdue, entry 1 is scheduled in the future, entry 2 was never reviewed.
	s.Require().NoError(s.repo.Upsert(ctx, models.CardReview{
		EntryID: s.entryIDs[0], DueAt: s.now.Add(-time.Hour), IntervalDays: 1, EaseFactor: 2.5, TimesReviewed: 1,
	}))
	s.Require().NoError(s.repo.Upsert(ctx, models.CardReview{
		EntryID: s.entryIDs[1], DueAt: s.now.Add(48 * time.Hour), IntervalDays: 6, EaseFactor: 2.5, TimesReviewed: 2,
	}))

	due, err := s.repo.Due(ctx, s.notebookID, s.now, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 2)

	s.Assert().Equal(s.entryIDs[2], due[0].ID, "never-reviewed cards come first")
	s.Assert().Equal(srs.DefaultEase, due[0].Review.EaseFactor)
	s.Assert().Zero(due[0].Review.TimesReviewed)

	s.Assert().Equal(s.entryIDs[0], due[1].ID)
	s.Assert().Equal("fire", due[1].Meaning)
	s.Assert().Equal(1, due[1].Review.TimesReviewed)

	limited, err := s.repo.Due(ctx, s.notebookID, s.now, 1)
	s.Require().NoError(err)
	s.Assert().Len(limited, 1)

	later, err := s.repo.Due(ctx, s.notebookID, s.now.Add(72*time.Hour), 10)
	s.Require().NoError(err)
	s.Assert().Len(later, 3)
}

func (s *ReviewRepositorySuite) TestInsertHistory() {
	ctx := context.Background()
	s.Require().NoError(s.repo.InsertHistory(ctx, s.entryIDs[0], srs.Easy, s.now))

	var quality int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT quality FROM review_history WHERE entry_id = ?`, s.entryIDs[0]).Scan(&quality))
	s.Assert().Equal(srs.Easy, quality)

	s.Assert().Error(s.repo.InsertHistory(ctx, s.entryIDs[0], 7, s.now), "quality outside 0-3 is rejected")
}

func TestReviewRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositorySuite))
}
