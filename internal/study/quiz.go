package study

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
)

// DefaultAdvanceDelay is how long an answered question stays visible.
const DefaultAdvanceDelay = time.Second

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d on another goroutine. It must
// not call f synchronously.
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Result summarizes a finished quiz.
type Result struct {
	StudySetID     string
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time
	FinishedAt     time.Time
}

type QuizOption func(*Quiz)

func WithRand(rng Rand) QuizOption {
	return func(q *Quiz) {
		if rng != nil {
			q.rng = rng
		}
	}
}

func WithAdvanceDelay(d time.Duration) QuizOption {
	return func(q *Quiz) {
		if d >= 0 {
			q.delay = d
		}
	}
}

func WithAfterFunc(fn AfterFunc) QuizOption {
	return func(q *Quiz) {
		if fn != nil {
			q.afterFunc = fn
		}
	}
}

// WithOnFinish registers a hook called once per completed quiz run.
func WithOnFinish(fn func(Result)) QuizOption {
	return func(q *Quiz) {
		q.onFinish = fn
	}
}

func WithClock(now func() time.Time) QuizOption {
	return func(q *Quiz) {
		if now != nil {
			q.now = now
		}
	}
}

func WithQuizLogger(l *logger.Logger) QuizOption {
	return func(q *Quiz) {
		if l != nil {
			q.log = l
		}
	}
}

type advanceToken struct {
	generation uint64
	index      int
}

// Quiz is a multiple-choice quiz session. All methods are safe for
// concurrent use; every transition publishes a new State to subscribers.
type Quiz struct {
	mu        sync.Mutex
	source    VocabularySource
	rng       Rand
	delay     time.Duration
	afterFunc AfterFunc
	onFinish  func(Result)
	now       func() time.Time
	log       *logger.Logger

	state     State
	entries   []models.VocabularyEntry
	questions []models.QuizQuestion
	startedAt time.Time
	closed    bool

	// generation invalidates in-flight loads and pending advances.
	generation uint64
	pending    Timer

	subs    map[int]chan State
	nextSub int
}

func NewQuiz(source VocabularySource, opts ...QuizOption) *Quiz {
	q := &Quiz{
		source:    source,
		rng:       newRand(),
		delay:     DefaultAdvanceDelay,
		afterFunc: timeAfterFunc,
		now:       time.Now,
		log:       logger.Default().WithPrefix("quiz"),
		state:     State{Phase: PhaseLoading},
		subs:      make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load fetches the study set and starts a fresh run. Calling Load from the
// Error phase is the retry path.
func (q *Quiz) Load(ctx context.Context, studySetID string) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	gen := q.invalidateLocked()
	q.entries, q.questions = nil, nil
	q.publishLocked(State{Phase: PhaseLoading, StudySetID: studySetID})
	q.mu.Unlock()

	q.log.Debug("loading study set %s", studySetID)
	entries, err := q.source.Fetch(ctx, studySetID)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if gen != q.generation {
		q.log.WithField("study_set", studySetID).Debug("discarding stale load")
		return ErrSuperseded
	}
	if err != nil {
		fetchErr := &FetchError{StudySetID: studySetID, Err: err}
		q.failLocked(studySetID, fetchErr)
		return fetchErr
	}

	questions, err := GenerateQuestions(entries, q.rng)
	if err != nil {
		q.failLocked(studySetID, err)
		return err
	}
	q.entries = entries
	q.startLocked(studySetID, questions)
	return nil
}

// SubmitAnswer records the answer to the current question and schedules the
// advance. A second submission for the same question returns the current
// state unchanged.
func (q *Quiz) SubmitAnswer(answer string) (State, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return q.state.clone(), ErrClosed
	}
	if q.state.Phase != PhaseReady {
		return q.state.clone(), ErrNotReady
	}
	if q.state.Answered() {
		return q.state.clone(), nil
	}

	question := q.questions[q.state.CurrentIndex]
	if !question.HasOption(answer) {
		return q.state.clone(), ErrInvalidOption
	}

	correct := answer == question.CorrectAnswer
	next := q.state
	next.SelectedAnswer = &answer
	next.IsAnswerCorrect = &correct
	if correct {
		next.Score++
	}
	q.publishLocked(next)

	q.log.WithFields(map[string]any{
		"study_set": next.StudySetID,
		"index":     next.CurrentIndex,
		"correct":   correct,
	}).Debug("answer submitted")

	tok := advanceToken{generation: q.generation, index: next.CurrentIndex}
	q.pending = q.afterFunc(q.delay, func() { q.advance(tok) })
	return next.clone(), nil
}

func (q *Quiz) advance(tok advanceToken) {
	q.mu.Lock()
	if q.closed || tok.generation != q.generation || q.state.Phase != PhaseReady ||
		q.state.CurrentIndex != tok.index || !q.state.Answered() {
		q.mu.Unlock()
		return
	}
	q.pending = nil

	cur := q.state
	nextIndex := cur.CurrentIndex + 1
	if nextIndex < cur.TotalQuestions {
		q.publishLocked(State{
			Phase:          PhaseReady,
			StudySetID:     cur.StudySetID,
			Question:       questionRef(q.questions[nextIndex]),
			CurrentIndex:   nextIndex,
			TotalQuestions: cur.TotalQuestions,
			Score:          cur.Score,
		})
		q.mu.Unlock()
		return
	}

	q.publishLocked(State{
		Phase:          PhaseFinished,
		StudySetID:     cur.StudySetID,
		TotalQuestions: cur.TotalQuestions,
		Score:          cur.Score,
		CorrectAnswers: cur.Score,
	})
	result := Result{
		StudySetID:     cur.StudySetID,
		TotalQuestions: cur.TotalQuestions,
		CorrectAnswers: cur.Score,
		StartedAt:      q.startedAt,
		FinishedAt:     q.now(),
	}
	onFinish := q.onFinish
	q.mu.Unlock()

	q.log.WithField("study_set", result.StudySetID).Info("quiz finished: %d/%d", result.CorrectAnswers, result.TotalQuestions)
	if onFinish != nil {
		onFinish(result)
	}
}

// Restart reshuffles the cached entries into a new run.
func (q *Quiz) Restart() (State, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return q.state.clone(), ErrClosed
	}
	if q.state.Phase != PhaseReady && q.state.Phase != PhaseFinished {
		return q.state.clone(), ErrNotRestartable
	}

	questions, err := GenerateQuestions(q.entries, q.rng)
	if err != nil {
		q.invalidateLocked()
		q.failLocked(q.state.StudySetID, err)
		return q.state.clone(), err
	}
	q.invalidateLocked()
	q.startLocked(q.state.StudySetID, questions)
	return q.state.clone(), nil
}

// State returns the current snapshot.
func (q *Quiz) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state.clone()
}

// Subscribe returns a channel that always holds the newest state. The first
// value is the current state. Snapshots not read before the next transition
// are replaced. The channel is closed by the returned cancel func or Close.
func (q *Quiz) Subscribe() (<-chan State, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch := make(chan State, 1)
	ch <- q.state.clone()
	if q.closed {
		close(ch)
		return ch, func() {}
	}

	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if c, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(c)
		}
	}
}

// Close cancels any pending advance, discards in-flight loads and closes
// all subscriber channels. It is idempotent.
func (q *Quiz) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.invalidateLocked()
	for id, ch := range q.subs {
		delete(q.subs, id)
		close(ch)
	}
}

func (q *Quiz) invalidateLocked() uint64 {
	q.generation++
	if q.pending != nil {
		q.pending.Stop()
		q.pending = nil
	}
	return q.generation
}

func (q *Quiz) startLocked(studySetID string, questions []models.QuizQuestion) {
	q.questions = questions
	q.startedAt = q.now()
	q.publishLocked(State{
		Phase:          PhaseReady,
		StudySetID:     studySetID,
		Question:       questionRef(questions[0]),
		TotalQuestions: len(questions),
	})
	q.log.WithField("study_set", studySetID).Debug("quiz ready with %d questions", len(questions))
}

func (q *Quiz) failLocked(studySetID string, err error) {
	q.questions = nil
	q.publishLocked(State{Phase: PhaseError, StudySetID: studySetID, Message: userMessage(err)})
	q.log.WithField("study_set", studySetID).Warn("quiz failed: %v", err)
}

func (q *Quiz) publishLocked(s State) {
	q.state = s
	for _, ch := range q.subs {
		select {
		case ch <- s.clone():
		default:
			// Replace the unread snapshot. We are the only sender, so the
			// second send cannot block.
			select {
			case <-ch:
			default:
			}
			ch <- s.clone()
		}
	}
}

func questionRef(q models.QuizQuestion) *models.QuizQuestion {
	q.Options = append([]string(nil), q.Options...)
	return &q
}
