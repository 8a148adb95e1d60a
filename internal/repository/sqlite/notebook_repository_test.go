package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/repository/sqlite"
	"github.com/vytor/torii/internal/testutil"
)

type NotebookRepositorySuite struct {
	suite.Suite
	db      *sql.DB
	repo    repository.NotebookRepository
	entries repository.EntryRepository
}

func (s *NotebookRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewNotebookRepository(s.db)
	s.entries = sqlite.NewEntryRepository(s.db)
}

func (s *NotebookRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *NotebookRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Genki I")
	s.Require().NoError(err)
	s.Assert().Greater(created.ID, int64(0))
	s.Assert().Equal("Genki I", created.Title)
	s.Assert().False(created.CreatedAt.IsZero())

	_, err = s.entries.InsertBatch(ctx, created.ID, testutil.Kanji())
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Assert().Equal("Genki I", got.Title)
	s.Assert().Equal(5, got.EntryCount)
}

func (s *NotebookRepositorySuite) TestCreateDuplicateTitle() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, "Genki I")
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, "Genki I")
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *NotebookRepositorySuite) TestGetMissing() {
	_, err := s.repo.Get(context.Background(), 42)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *NotebookRepositorySuite) TestList() {
	ctx := context.Background()

	first, err := s.repo.Create(ctx, "Genki I")
	s.Require().NoError(err)
	_, err = s.repo.Create(ctx, "Genki II")
	s.Require().NoError(err)
	_, err = s.entries.Insert(ctx, models.VocabularyEntry{NotebookID: first.ID, Expression: "猫", Reading: "ねこ", Meaning: "cat"})
	s.Require().NoError(err)

	notebooks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(notebooks, 2)
	s.Assert().Equal("Genki I", notebooks[0].Title)
	s.Assert().Equal(1, notebooks[0].EntryCount)
	s.Assert().Equal(0, notebooks[1].EntryCount)
}

func (s *NotebookRepositorySuite) TestDeleteCascades() {
	ctx := context.Background()

	n, err := s.repo.Create(ctx, "Genki I")
	s.Require().NoError(err)
	_, err = s.entries.InsertBatch(ctx, n.ID, testutil.Kanji())
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, n.ID))

	count, err := s.entries.Count(ctx, models.EntryFilter{NotebookID: n.ID})
	s.Require().NoError(err)
	s.Assert().Zero(count)

	s.Assert().ErrorIs(s.repo.Delete(ctx, n.ID), sql.ErrNoRows)
}

func TestNotebookRepositorySuite(t *testing.T) {
	suite.Run(t, new(NotebookRepositorySuite))
}
