package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/testutil"
	"github.com/vytor/torii/internal/testutil/mocks"
	"github.com/vytor/torii/internal/worker"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []worker.Job
	err  error
}

func (q *recordingQueue) Submit(job worker.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []worker.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]worker.Job(nil), q.jobs...)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func newQuizFixture(t *testing.T) (*quizService, *mocks.MockVocabularySource, *mocks.MockResultRepository, *recordingQueue) {
	t.Helper()
	source := new(mocks.MockVocabularySource)
	results := new(mocks.MockResultRepository)
	queue := &recordingQueue{}
	svc := NewQuizService(source, results, queue,
		study.WithRand(rand.New(rand.NewSource(1))),
		study.WithAdvanceDelay(0),
	).(*quizService)
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc, source, results, queue
}

func TestQuizService_StartAndAnswer(t *testing.T) {
	ctx := context.Background()
	svc, source, _, _ := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "builtin:elements").Return(testutil.Kanji(), nil)

	session, err := svc.Start(ctx, " builtin:elements ")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, study.PhaseReady, session.State.Phase)
	assert.Equal(t, 5, session.State.TotalQuestions)

	answered, err := svc.Answer(ctx, session.ID, session.State.Question.CorrectAnswer)
	require.NoError(t, err)
	assert.Equal(t, 1, answered.State.Score)
	assert.True(t, *answered.State.IsAnswerCorrect)

	assert.Eventually(t, func() bool {
		s, err := svc.State(ctx, session.ID)
		return err == nil && s.State.CurrentIndex == 1
	}, time.Second, time.Millisecond)
	source.AssertExpectations(t)
}

func TestQuizService_StartValidation(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t)
	_, err := svc.Start(context.Background(), "  ")
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestQuizService_StartUnknownStudySet(t *testing.T) {
	svc, source, _, _ := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "99").Return(nil, study.ErrUnknownStudySet)

	_, err := svc.Start(context.Background(), "99")
	requireCode(t, err, apperrors.ErrCodeNotFound)
	assert.Zero(t, svc.sessions.len())
}

func TestQuizService_StartWithEmptySetThenRetry(t *testing.T) {
	ctx := context.Background()
	svc, source, _, _ := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "3").Return([]models.VocabularyEntry{}, nil).Once()
	source.On("Fetch", mock.Anything, "3").Return(testutil.Kanji(), nil).Once()

	session, err := svc.Start(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, study.PhaseError, session.State.Phase)
	assert.Equal(t, "No vocabularies found in this notebook", session.State.Message)

	retried, err := svc.Retry(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseReady, retried.State.Phase)

	_, err = svc.Retry(ctx, session.ID)
	requireCode(t, err, apperrors.ErrCodeConflict)
	source.AssertExpectations(t)
}

func TestQuizService_AnswerErrors(t *testing.T) {
	ctx := context.Background()
	svc, source, _, _ := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(testutil.Kanji(), nil)

	_, err := svc.Answer(ctx, "missing", "fire")
	requireCode(t, err, apperrors.ErrCodeNotFound)

	session, err := svc.Start(ctx, "1")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, session.ID, "not an option")
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestQuizService_FinishedQuizIsRecorded(t *testing.T) {
	ctx := context.Background()
	svc, source, _, queue := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "builtin:four").Return(testutil.Kanji()[:4], nil)

	session, err := svc.Start(ctx, "builtin:four")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		var current *QuizSession
		require.Eventually(t, func() bool {
			current, err = svc.State(ctx, session.ID)
			return err == nil && current.State.Phase == study.PhaseReady && current.State.CurrentIndex == i
		}, time.Second, time.Millisecond)
		_, err = svc.Answer(ctx, session.ID, current.State.Question.CorrectAnswer)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return len(queue.Jobs()) == 1 }, time.Second, time.Millisecond)
	job, ok := queue.Jobs()[0].(*worker.RecordResultJob)
	require.True(t, ok)
	assert.Equal(t, session.ID, job.Result.SessionID)
	assert.Equal(t, "builtin:four", job.Result.StudySetID)
	assert.Equal(t, 4, job.Result.TotalQuestions)
	assert.Equal(t, 4, job.Result.CorrectAnswers)

	final, err := svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseFinished, final.State.Phase)

	restarted, err := svc.Restart(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, restarted.State.Score)
}

func TestQuizService_CloseAndReap(t *testing.T) {
	ctx := context.Background()
	svc, source, _, _ := newQuizFixture(t)
	source.On("Fetch", mock.Anything, "1").Return(testutil.Kanji(), nil)

	first, err := svc.Start(ctx, "1")
	require.NoError(t, err)
	second, err := svc.Start(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, first.ID))
	requireCode(t, svc.Close(ctx, first.ID), apperrors.ErrCodeNotFound)

	updates, cancel, err := svc.Subscribe(ctx, second.ID)
	require.NoError(t, err)
	defer cancel()
	<-updates

	assert.Equal(t, 0, svc.Reap(ctx, time.Hour))
	svc.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, svc.Reap(ctx, time.Hour))

	_, ok := <-updates
	assert.False(t, ok, "reaped sessions close their subscribers")
	_, err = svc.State(ctx, second.ID)
	requireCode(t, err, apperrors.ErrCodeNotFound)
}

func TestQuizService_ResultsAndStats(t *testing.T) {
	ctx := context.Background()
	svc, _, results, _ := newQuizFixture(t)
	filter := models.ResultFilter{StudySetID: "1", Limit: 10}
	results.On("List", mock.Anything, filter).Return([]models.QuizResult{{ID: 1, StudySetID: "1"}}, nil)
	results.On("Stats", mock.Anything, "1").Return(&models.QuizStats{StudySetID: "1", Attempts: 1}, nil)
	results.On("Stats", mock.Anything, "broken").Return(nil, errors.New("locked"))

	list, err := svc.Results(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stats, err := svc.Stats(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Attempts)

	_, err = svc.Stats(ctx, "broken")
	requireCode(t, err, apperrors.ErrCodeInternal)
}

func TestQuizService_RecordSkipsWhenQueueRejects(t *testing.T) {
	svc, _, _, queue := newQuizFixture(t)
	queue.err = worker.ErrQueueFull

	assert.NotPanics(t, func() {
		svc.record("s-1", study.Result{StudySetID: "1", TotalQuestions: 4, CorrectAnswers: 2})
	})
	assert.Empty(t, queue.Jobs())
}
