package study

import (
	"fmt"

	"github.com/vytor/torii/internal/models"
)

// Phase is the variant tag of a session state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFinished
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFinished:
		return "finished"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "loading":
		*p = PhaseLoading
	case "ready":
		*p = PhaseReady
	case "finished":
		*p = PhaseFinished
	case "error":
		*p = PhaseError
	default:
		return fmt.Errorf("unknown phase %q", string(b))
	}
	return nil
}

// State is an immutable snapshot of a quiz session. Which fields are
// meaningful depends on Phase:
//
//	Loading:  none
//	Ready:    Question, CurrentIndex, TotalQuestions, Score, SelectedAnswer, IsAnswerCorrect
//	Finished: TotalQuestions, CorrectAnswers
//	Error:    Message
//
// SelectedAnswer and IsAnswerCorrect are nil until the current question is
// answered and are always set together.
type State struct {
	Phase           Phase                `json:"phase"`
	StudySetID      string               `json:"study_set_id,omitempty"`
	Question        *models.QuizQuestion `json:"question,omitempty"`
	CurrentIndex    int                  `json:"current_index"`
	TotalQuestions  int                  `json:"total_questions"`
	Score           int                  `json:"score"`
	SelectedAnswer  *string              `json:"selected_answer,omitempty"`
	IsAnswerCorrect *bool                `json:"is_answer_correct,omitempty"`
	CorrectAnswers  int                  `json:"correct_answers"`
	Message         string               `json:"message,omitempty"`
}

// clone copies s deeply so callers never share memory with the quiz.
func (s State) clone() State {
	if s.Question != nil {
		q := *s.Question
		q.Options = append([]string(nil), q.Options...)
		s.Question = &q
	}
	if s.SelectedAnswer != nil {
		a := *s.SelectedAnswer
		s.SelectedAnswer = &a
	}
	if s.IsAnswerCorrect != nil {
		c := *s.IsAnswerCorrect
		s.IsAnswerCorrect = &c
	}
	return s
}

// Answered reports whether the current question already has an answer.
func (s State) Answered() bool {
	return s.SelectedAnswer != nil
}

// FlashcardState is a snapshot of a flashcard navigator. Phase is Loading,
// Ready or Error.
type FlashcardState struct {
	Phase        Phase             `json:"phase"`
	StudySetID   string            `json:"study_set_id,omitempty"`
	Card         *models.Flashcard `json:"card,omitempty"`
	CurrentIndex int               `json:"current_index"`
	TotalCards   int               `json:"total_cards"`
	IsFlipped    bool              `json:"is_flipped"`
	Known        int               `json:"known"`
	Message      string            `json:"message,omitempty"`
}
