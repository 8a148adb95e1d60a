package models

import "time"

// Notebook is a named study set owned by the learner.
type Notebook struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// VocabularyEntry is a term/reading/meaning triple. Two entries are the same
// entry when their Key matches; ID and NotebookID only locate the stored row.
type VocabularyEntry struct {
	ID         int64     `json:"id,omitempty"`
	NotebookID int64     `json:"notebook_id,omitempty"`
	Expression string    `json:"expression"`
	Reading    string    `json:"reading"`
	Meaning    string    `json:"meaning"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// EntryKey is the value identity of a vocabulary entry.
type EntryKey struct {
	Expression string
	Reading    string
	Meaning    string
}

func (e VocabularyEntry) Key() EntryKey {
	return EntryKey{Expression: e.Expression, Reading: e.Reading, Meaning: e.Meaning}
}

type EntryFilter struct {
	NotebookID int64
	Query      string
	Limit      int
	Offset     int
}

// Deck describes a bundled vocabulary list shipped with the binary.
type Deck struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	StudySetID string `json:"study_set_id"`
	EntryCount int    `json:"entry_count"`
}
