package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/study"
)

// RemotePrefix marks study set ids fetched from a remote deck server.
const RemotePrefix = "remote:"

// RemoteSource downloads decks in the bundled deck format from
// <baseURL>/<name>.json.
type RemoteSource struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteSource(baseURL string, timeout time.Duration) *RemoteSource {
	return &RemoteSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *RemoteSource) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	name := strings.TrimPrefix(studySetID, RemotePrefix)
	log := logger.FromContext(ctx).WithPrefix("remote_decks").WithField("deck", name)
	if name == "" || strings.ContainsAny(name, "/?#") {
		return nil, fmt.Errorf("remote deck %q: %w", name, study.ErrUnknownStudySet)
	}

	deckURL := s.baseURL + "/" + url.PathEscape(name) + ".json"
	log.Debug("fetching deck from: %s", deckURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, deckURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch deck: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("deck response received in %v, status=%d", time.Since(start), resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("remote deck %q: %w", name, study.ErrUnknownStudySet)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("deck request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("deck status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var deck deckFile
	if err := json.NewDecoder(resp.Body).Decode(&deck); err != nil {
		log.Error("failed to decode deck response: %v", err)
		return nil, fmt.Errorf("decode deck: %w", err)
	}

	log.Info("fetched %d entries for deck %s", len(deck.Entries), name)
	return deck.Entries, nil
}
