package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/worker"
)

// JobQueue accepts background jobs. *worker.Pool implements it.
type JobQueue interface {
	Submit(job worker.Job) error
}

// QuizSession is a live quiz and its current state.
type QuizSession struct {
	ID    string      `json:"id"`
	State study.State `json:"state"`
}

// QuizService runs quiz sessions and keeps their results
type QuizService interface {
	Start(ctx context.Context, studySetID string) (*QuizSession, error)
	State(ctx context.Context, id string) (*QuizSession, error)
	Answer(ctx context.Context, id, answer string) (*QuizSession, error)
	Restart(ctx context.Context, id string) (*QuizSession, error)
	Retry(ctx context.Context, id string) (*QuizSession, error)
	Close(ctx context.Context, id string) error
	Subscribe(ctx context.Context, id string) (<-chan study.State, func(), error)
	Results(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error)
	Stats(ctx context.Context, studySetID string) (*models.QuizStats, error)
	Reap(ctx context.Context, ttl time.Duration) int
	Shutdown(ctx context.Context)
}

type quizService struct {
	source   study.VocabularySource
	results  repository.ResultRepository
	queue    JobQueue
	opts     []study.QuizOption
	sessions *registry[*study.Quiz]
}

// NewQuizService creates a new QuizService. opts apply to every quiz it starts.
func NewQuizService(source study.VocabularySource, results repository.ResultRepository, queue JobQueue, opts ...study.QuizOption) QuizService {
	return &quizService{
		source:   source,
		results:  results,
		queue:    queue,
		opts:     opts,
		sessions: newRegistry[*study.Quiz](time.Now),
	}
}

func (s *quizService) Start(ctx context.Context, studySetID string) (*QuizSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: study_set=%s", studySetID)

	studySetID = strings.TrimSpace(studySetID)
	if studySetID == "" {
		return nil, errors.NewValidationError("study_set_id", "cannot be empty")
	}

	id := uuid.NewString()
	opts := append([]study.QuizOption{}, s.opts...)
	opts = append(opts,
		study.WithQuizLogger(logger.Default().WithPrefix("quiz").WithField("session", id)),
		study.WithOnFinish(func(r study.Result) { s.record(id, r) }),
	)
	quiz := study.NewQuiz(s.source, opts...)

	err := quiz.Load(ctx, studySetID)
	if stderrors.Is(err, study.ErrUnknownStudySet) {
		quiz.Close()
		return nil, errors.FromStudyError(err)
	}
	if err != nil {
		// The session stays in the Error phase so the client can retry.
		log.Warn("quiz %s loaded with error: %v", id, err)
	}

	s.sessions.add(id, quiz)
	log.Info("quiz started: id=%s, study_set=%s, phase=%s", id, studySetID, quiz.State().Phase)
	return &QuizSession{ID: id, State: quiz.State()}, nil
}

func (s *quizService) lookup(id string) (*study.Quiz, error) {
	quiz, ok := s.sessions.get(id)
	if !ok {
		return nil, errors.NewNotFoundError("quiz", id)
	}
	return quiz, nil
}

func (s *quizService) State(ctx context.Context, id string) (*QuizSession, error) {
	logger.FromContext(ctx).Debug("getting quiz state: id=%s", id)

	quiz, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &QuizSession{ID: id, State: quiz.State()}, nil
}

func (s *quizService) Answer(ctx context.Context, id, answer string) (*QuizSession, error) {
	logger.FromContext(ctx).Debug("answering quiz: id=%s", id)

	quiz, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	state, err := quiz.SubmitAnswer(answer)
	if err != nil {
		return nil, errors.FromStudyError(err)
	}
	return &QuizSession{ID: id, State: state}, nil
}

func (s *quizService) Restart(ctx context.Context, id string) (*QuizSession, error) {
	logger.FromContext(ctx).Debug("restarting quiz: id=%s", id)

	quiz, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	state, err := quiz.Restart()
	if err != nil {
		return nil, errors.FromStudyError(err)
	}
	return &QuizSession{ID: id, State: state}, nil
}

// Retry reloads the study set of a quiz in the Error phase.
func (s *quizService) Retry(ctx context.Context, id string) (*QuizSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("retrying quiz: id=%s", id)

	quiz, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	current := quiz.State()
	if current.Phase != study.PhaseError {
		return nil, errors.NewConflictError("only a failed quiz can be retried", nil)
	}

	if err := quiz.Load(ctx, current.StudySetID); err != nil {
		if stderrors.Is(err, study.ErrSuperseded) || stderrors.Is(err, study.ErrClosed) {
			return nil, errors.FromStudyError(err)
		}
		log.Warn("quiz %s retry failed: %v", id, err)
	}
	return &QuizSession{ID: id, State: quiz.State()}, nil
}

func (s *quizService) Close(ctx context.Context, id string) error {
	logger.FromContext(ctx).Debug("closing quiz: id=%s", id)

	quiz, ok := s.sessions.remove(id)
	if !ok {
		return errors.NewNotFoundError("quiz", id)
	}
	quiz.Close()
	return nil
}

func (s *quizService) Subscribe(ctx context.Context, id string) (<-chan study.State, func(), error) {
	logger.FromContext(ctx).Debug("subscribing to quiz: id=%s", id)

	quiz, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := quiz.Subscribe()
	return ch, cancel, nil
}

func (s *quizService) Results(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing quiz results: study_set=%s", filter.StudySetID)

	results, err := s.results.List(ctx, filter)
	if err != nil {
		log.Error("failed to list quiz results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func (s *quizService) Stats(ctx context.Context, studySetID string) (*models.QuizStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting quiz stats: study_set=%s", studySetID)

	stats, err := s.results.Stats(ctx, studySetID)
	if err != nil {
		log.Error("failed to get quiz stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

// Reap closes sessions idle for longer than ttl and returns how many it closed.
func (s *quizService) Reap(ctx context.Context, ttl time.Duration) int {
	expired := s.sessions.expire(ttl)
	for _, quiz := range expired {
		quiz.Close()
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info("reaped %d idle quizzes", len(expired))
	}
	return len(expired)
}

// Shutdown closes every live session.
func (s *quizService) Shutdown(ctx context.Context) {
	sessions := s.sessions.drain()
	for _, quiz := range sessions {
		quiz.Close()
	}
	logger.FromContext(ctx).Info("closed %d quizzes", len(sessions))
}

func (s *quizService) record(sessionID string, r study.Result) {
	log := logger.Default().WithPrefix("quiz_service").WithField("session", sessionID)
	if s.queue == nil || s.results == nil {
		return
	}
	job := &worker.RecordResultJob{
		Results: s.results,
		Result: models.QuizResult{
			SessionID:      sessionID,
			StudySetID:     r.StudySetID,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			StartedAt:      r.StartedAt,
			FinishedAt:     r.FinishedAt,
		},
	}
	if err := s.queue.Submit(job); err != nil {
		log.Warn("quiz result not recorded: %v", err)
	}
}
