package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/services"
)

type reviewRequest struct {
	Quality *int `json:"quality"`
}

func (s *Server) handleStartFlashcards(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Flashcards.Start(r.Context(), req.StudySetID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("started flashcards %s for %s", session.ID, req.StudySetID)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleFlashcardState(w http.ResponseWriter, r *http.Request) {
	s.flashcardAction(services.FlashcardService.State)(w, r)
}

// flashcardAction adapts a FlashcardService method taking only a session id.
func (s *Server) flashcardAction(action func(services.FlashcardService, context.Context, string) (*services.FlashcardSession, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := action(s.Flashcards, r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, session)
	}
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Quality == nil {
		handleError(w, r, errors.NewValidationError("quality", "is required"))
		return
	}

	outcome, err := s.Flashcards.Review(r.Context(), chi.URLParam(r, "id"), *req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, outcome)
}

func (s *Server) handleCloseFlashcards(w http.ResponseWriter, r *http.Request) {
	if err := s.Flashcards.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	notebookID, err := queryInt(r, "notebook_id", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Flashcards.DueCards(r.Context(), int64(notebookID), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.DueCard{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}
