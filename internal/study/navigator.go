package study

import (
	"context"
	"sync"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
)

type NavigatorOption func(*Navigator)

func WithNavigatorRand(rng Rand) NavigatorOption {
	return func(n *Navigator) {
		if rng != nil {
			n.rng = rng
		}
	}
}

func WithNavigatorLogger(l *logger.Logger) NavigatorOption {
	return func(n *Navigator) {
		if l != nil {
			n.log = l
		}
	}
}

// Navigator walks a deck of flashcards. Operations outside the Ready phase,
// after Close, and moves past either end are no-ops that return the current state.
type Navigator struct {
	mu     sync.Mutex
	source VocabularySource
	rng    Rand
	log    *logger.Logger

	phase      Phase
	studySetID string
	message    string
	cards      []models.Flashcard
	index      int
	flipped    bool
	known      map[models.EntryKey]bool
	generation uint64
	closed     bool
}

func NewNavigator(source VocabularySource, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		source: source,
		rng:    newRand(),
		log:    logger.Default().WithPrefix("flashcards"),
		phase:  PhaseLoading,
		known:  make(map[models.EntryKey]bool),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load replaces the deck with the entries of studySetID, in source order.
func (n *Navigator) Load(ctx context.Context, studySetID string) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	n.generation++
	gen := n.generation
	n.reset(studySetID)
	n.mu.Unlock()

	entries, err := n.source.Fetch(ctx, studySetID)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	if gen != n.generation {
		return ErrSuperseded
	}
	if err != nil {
		fetchErr := &FetchError{StudySetID: studySetID, Err: err}
		n.fail(fetchErr)
		return fetchErr
	}

	usable := UsableEntries(entries)
	if len(usable) == 0 {
		n.fail(ErrEmptySet)
		return ErrEmptySet
	}
	n.cards = make([]models.Flashcard, len(usable))
	for i, e := range usable {
		n.cards[i] = models.FlashcardFromEntry(e)
	}
	n.phase = PhaseReady
	n.log.WithField("study_set", studySetID).Debug("deck ready with %d cards", len(n.cards))
	return nil
}

func (n *Navigator) Flip() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active() {
		n.flipped = !n.flipped
	}
	return n.snapshot()
}

func (n *Navigator) Next() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active() && n.index < len(n.cards)-1 {
		n.index++
		n.flipped = false
	}
	return n.snapshot()
}

func (n *Navigator) Previous() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active() && n.index > 0 {
		n.index--
		n.flipped = false
	}
	return n.snapshot()
}

// Shuffle reorders the deck and returns to the first card. Known cards stay known.
func (n *Navigator) Shuffle() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active() {
		Shuffle(n.rng, n.cards)
		n.index = 0
		n.flipped = false
	}
	return n.snapshot()
}

// MarkKnown counts the current card as known. Marking it again has no effect.
func (n *Navigator) MarkKnown() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active() {
		n.known[n.cards[n.index].Key()] = true
	}
	return n.snapshot()
}

// Current returns the card on top of the deck.
func (n *Navigator) Current() (models.Flashcard, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active() {
		return models.Flashcard{}, false
	}
	return n.cards[n.index], true
}

func (n *Navigator) State() FlashcardState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

// Close discards in-flight loads and freezes the deck. Later calls to Load
// fail with ErrClosed.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.generation++
}

func (n *Navigator) active() bool {
	return n.phase == PhaseReady && !n.closed
}

func (n *Navigator) reset(studySetID string) {
	n.phase = PhaseLoading
	n.studySetID = studySetID
	n.message = ""
	n.cards = nil
	n.index = 0
	n.flipped = false
	n.known = make(map[models.EntryKey]bool)
}

func (n *Navigator) fail(err error) {
	n.phase = PhaseError
	n.message = userMessage(err)
	n.log.WithField("study_set", n.studySetID).Warn("flashcards failed: %v", err)
}

func (n *Navigator) snapshot() FlashcardState {
	s := FlashcardState{
		Phase:      n.phase,
		StudySetID: n.studySetID,
		Message:    n.message,
	}
	if n.phase != PhaseReady {
		return s
	}
	card := n.cards[n.index]
	s.Card = &card
	s.CurrentIndex = n.index
	s.TotalCards = len(n.cards)
	s.IsFlipped = n.flipped
	s.Known = len(n.known)
	return s
}
