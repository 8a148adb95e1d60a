package study

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySet means the study set holds no usable vocabulary entries.
	ErrEmptySet = errors.New("no vocabularies found in this study set")
	// ErrInsufficientDistractors means fewer than OptionCount distinct meanings exist.
	ErrInsufficientDistractors = errors.New("not enough distinct meanings to build multiple-choice questions")
	ErrNotReady                = errors.New("session is not ready for answers")
	ErrInvalidOption           = errors.New("answer is not one of the offered options")
	ErrNotRestartable          = errors.New("session can only restart once questions are loaded")
	// ErrSuperseded is returned by a Load whose result arrived after a newer
	// Load, Restart or Close; the result was discarded.
	ErrSuperseded = errors.New("load superseded by a newer request")
	ErrClosed     = errors.New("session closed")
	// ErrUnknownStudySet is returned by sources for ids they cannot resolve.
	ErrUnknownStudySet = errors.New("study set not found")
)

// FetchError wraps a failure of the vocabulary source.
type FetchError struct {
	StudySetID string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch study set %q: %v", e.StudySetID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// userMessage is the text shown in an Error state.
func userMessage(err error) string {
	var fetchErr *FetchError
	switch {
	case errors.Is(err, ErrEmptySet):
		return "No vocabularies found in this notebook"
	case errors.Is(err, ErrUnknownStudySet):
		return "This notebook does not exist"
	case errors.Is(err, ErrInsufficientDistractors):
		return fmt.Sprintf("At least %d vocabularies with different meanings are needed for a quiz", OptionCount)
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("Failed to load vocabularies: %v", fetchErr.Err)
	default:
		return err.Error()
	}
}
