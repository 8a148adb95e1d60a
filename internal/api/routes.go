package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/services"
)

const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, &errors.AppError{Code: errors.ErrCodeBadRequest, Message: "method not allowed", Status: http.StatusMethodNotAllowed})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	// The websocket upgrade needs the raw connection, so it stays outside the timeout group.
	r.Get("/api/quizzes/{id}/stream", s.handleQuizStream)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))

		r.Route("/api/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Get("/{name}/entries", s.handleDeckEntries)
		})

		r.Route("/api/notebooks", func(r chi.Router) {
			r.Get("/", s.handleListNotebooks)
			r.Post("/", s.handleCreateNotebook)
			r.Get("/{id}", s.handleGetNotebook)
			r.Delete("/{id}", s.handleDeleteNotebook)
			r.Get("/{id}/entries", s.handleListEntries)
			r.Post("/{id}/entries", s.handleAddEntries)
			r.Delete("/{id}/entries/{entryID}", s.handleRemoveEntry)
		})

		r.Route("/api/quizzes", func(r chi.Router) {
			r.Post("/", s.handleStartQuiz)
			r.Get("/{id}", s.handleQuizState)
			r.Delete("/{id}", s.handleCloseQuiz)
			r.Post("/{id}/answer", s.handleAnswer)
			r.Post("/{id}/restart", s.handleRestartQuiz)
			r.Post("/{id}/retry", s.handleRetryQuiz)
		})

		r.Get("/api/results", s.handleResults)
		r.Get("/api/results/stats", s.handleResultStats)

		r.Route("/api/flashcards", func(r chi.Router) {
			r.Post("/", s.handleStartFlashcards)
			r.Get("/{id}", s.handleFlashcardState)
			r.Delete("/{id}", s.handleCloseFlashcards)
			r.Post("/{id}/flip", s.flashcardAction(services.FlashcardService.Flip))
			r.Post("/{id}/next", s.flashcardAction(services.FlashcardService.Next))
			r.Post("/{id}/previous", s.flashcardAction(services.FlashcardService.Previous))
			r.Post("/{id}/shuffle", s.flashcardAction(services.FlashcardService.Shuffle))
			r.Post("/{id}/known", s.flashcardAction(services.FlashcardService.MarkKnown))
			r.Post("/{id}/review", s.handleReviewFlashcard)
		})

		r.Get("/api/reviews/due", s.handleDueCards)
	})

	return r
}
