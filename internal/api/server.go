// Package api exposes the study services over HTTP.
package api

import (
	"context"

	"github.com/vytor/torii/internal/services"
)

// Pinger reports whether the backing store is reachable. *db.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Notebooks   services.NotebookService
	Quizzes     services.QuizService
	Flashcards  services.FlashcardService
	DB          Pinger
	CORSOrigins []string
}
