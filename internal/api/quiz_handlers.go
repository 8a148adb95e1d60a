package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/services"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS middleware for browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type startSessionRequest struct {
	StudySetID string `json:"study_set_id"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Quizzes.Start(r.Context(), req.StudySetID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("started quiz %s for %s", session.ID, req.StudySetID)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleQuizState(w http.ResponseWriter, r *http.Request) {
	s.writeQuiz(w, r)(s.Quizzes.State(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.writeQuiz(w, r)(s.Quizzes.Answer(r.Context(), chi.URLParam(r, "id"), req.Answer))
}

func (s *Server) handleRestartQuiz(w http.ResponseWriter, r *http.Request) {
	s.writeQuiz(w, r)(s.Quizzes.Restart(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleRetryQuiz(w http.ResponseWriter, r *http.Request) {
	s.writeQuiz(w, r)(s.Quizzes.Retry(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleCloseQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.Quizzes.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeQuiz(w http.ResponseWriter, r *http.Request) func(*services.QuizSession, error) {
	return func(session *services.QuizSession, err error) {
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, session)
	}
}

// handleQuizStream pushes every state snapshot of a quiz over a websocket
// until the quiz is closed or the client goes away.
func (s *Server) handleQuizStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context()).WithField("session", id)

	states, cancel, err := s.Quizzes.Subscribe(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Debug("stream opened")

	// Reading is only used to notice the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			log.Debug("stream client disconnected")
			return
		case state, ok := <-states:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				log.Debug("stream closed with session")
				return
			}
			if err := conn.WriteJSON(state); err != nil {
				log.Warn("stream write failed: %v", err)
				return
			}
		}
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	results, err := s.Quizzes.Results(r.Context(), models.ResultFilter{
		StudySetID: r.URL.Query().Get("study_set_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if results == nil {
		results = []models.QuizResult{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleResultStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Quizzes.Stats(r.Context(), r.URL.Query().Get("study_set_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
