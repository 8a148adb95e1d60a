package study_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/study"
)

func elements() []models.VocabularyEntry {
	return []models.VocabularyEntry{
		{Expression: "火", Reading: "ひ", Meaning: "fire"},
		{Expression: "水", Reading: "みず", Meaning: "water"},
		{Expression: "木", Reading: "き", Meaning: "tree"},
		{Expression: "金", Reading: "きん", Meaning: "gold"},
		{Expression: "土", Reading: "つち", Meaning: "earth"},
	}
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func staticSource(entries []models.VocabularyEntry, err error) study.VocabularySource {
	return study.SourceFunc(func(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
		return entries, err
	})
}

// manualTimers records scheduled advances so tests decide when they fire.
type manualTimers struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) study.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{delay: d, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Pending counts timers that were neither stopped nor fired.
func (m *manualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

// FireAll runs every pending timer, the way the runtime would after the delay.
func (m *manualTimers) FireAll() {
	m.mu.Lock()
	timers := append([]*manualTimer(nil), m.timers...)
	m.mu.Unlock()
	for _, t := range timers {
		t.mu.Lock()
		run := !t.stopped && !t.fired
		t.fired = true
		t.mu.Unlock()
		if run {
			t.fn()
		}
	}
}

// FireStale runs a timer even if it was stopped, as a timer racing Stop would.
func (m *manualTimers) FireStale(i int) {
	m.mu.Lock()
	t := m.timers[i]
	m.mu.Unlock()
	t.fn()
}

func (m *manualTimers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func wrongOption(q *models.QuizQuestion) string {
	for _, o := range q.Options {
		if o != q.CorrectAnswer {
			return o
		}
	}
	return ""
}

func newTestQuiz(t *testing.T, source study.VocabularySource, timers *manualTimers, opts ...study.QuizOption) *study.Quiz {
	t.Helper()
	base := []study.QuizOption{
		study.WithRand(seeded(1)),
		study.WithAfterFunc(timers.AfterFunc),
	}
	q := study.NewQuiz(source, append(base, opts...)...)
	t.Cleanup(q.Close)
	return q
}
