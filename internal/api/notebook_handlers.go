package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"decks": s.Notebooks.ListDecks(r.Context())})
}

func (s *Server) handleDeckEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Notebooks.DeckEntries(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks, err := s.Notebooks.ListNotebooks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if notebooks == nil {
		notebooks = []models.Notebook{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"notebooks": notebooks})
}

type createNotebookRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req createNotebookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	notebook, err := s.Notebooks.CreateNotebook(r.Context(), req.Title)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("created notebook %d: %s", notebook.ID, notebook.Title)
	writeJSON(w, r, http.StatusCreated, notebook)
}

func (s *Server) handleGetNotebook(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	notebook, err := s.Notebooks.GetNotebook(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, notebook)
}

func (s *Server) handleDeleteNotebook(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Notebooks.DeleteNotebook(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	page, err := s.Notebooks.ListEntries(r.Context(), models.EntryFilter{
		NotebookID: id,
		Query:      r.URL.Query().Get("q"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

// handleAddEntries accepts either one entry object or an array of entries.
func (s *Server) handleAddEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		handleError(w, r, err)
		return
	}

	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var entries []models.VocabularyEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid entries: "+err.Error()))
			return
		}
		added, err := s.Notebooks.AddEntries(r.Context(), id, entries)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, map[string]int{"added": added, "skipped": len(entries) - added})
		return
	}

	var entry models.VocabularyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid entry: "+err.Error()))
		return
	}
	created, err := s.Notebooks.AddEntry(r.Context(), id, entry)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	entryID, err := pathInt64(r, "entryID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Notebooks.RemoveEntry(r.Context(), id, entryID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
