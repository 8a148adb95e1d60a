package models

import "time"

type QuizQuestion struct {
	Vocabulary    VocabularyEntry `json:"vocabulary"`
	Options       []string        `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
}

// HasOption reports whether answer is one of the presented options.
func (q QuizQuestion) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

type QuizResult struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	StudySetID     string    `json:"study_set_id"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

type ResultFilter struct {
	StudySetID string
	Limit      int
	Offset     int
}

type QuizStats struct {
	StudySetID     string     `json:"study_set_id"`
	Attempts       int        `json:"attempts"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
	Accuracy       float64    `json:"accuracy"` // percentage, 0-100
	BestScore      int        `json:"best_score"`
	LastFinishedAt *time.Time `json:"last_finished_at"`
}
