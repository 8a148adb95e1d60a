package models

import "time"

type Flashcard struct {
	Expression string `json:"expression"`
	Reading    string `json:"reading"`
	Meaning    string `json:"meaning"`
	EntryID    int64  `json:"entry_id,omitempty"`
}

func FlashcardFromEntry(e VocabularyEntry) Flashcard {
	return Flashcard{Expression: e.Expression, Reading: e.Reading, Meaning: e.Meaning, EntryID: e.ID}
}

func (c Flashcard) Key() EntryKey {
	return EntryKey{Expression: c.Expression, Reading: c.Reading, Meaning: c.Meaning}
}

// CardReview is the spaced-repetition schedule of one stored vocabulary entry.
type CardReview struct {
	EntryID       int64     `json:"entry_id"`
	DueAt         time.Time `json:"due_at"`
	IntervalDays  int       `json:"interval_days"`
	EaseFactor    float64   `json:"ease_factor"`
	TimesReviewed int       `json:"times_reviewed"`
	TimesCorrect  int       `json:"times_correct"`
}

// DueCard pairs an entry with its schedule.
type DueCard struct {
	VocabularyEntry
	Review CardReview `json:"review"`
}
