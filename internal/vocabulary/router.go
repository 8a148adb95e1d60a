// Package vocabulary provides the study sets quizzes and flashcards draw from.
package vocabulary

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/study"
)

// Router sends DeckPrefix ids to the bundled decks, RemotePrefix ids to the
// remote deck server and everything else to notebooks. Remote is optional.
type Router struct {
	Decks     study.VocabularySource
	Notebooks study.VocabularySource
	Remote    study.VocabularySource
}

func (r Router) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	switch {
	case strings.HasPrefix(studySetID, DeckPrefix):
		return r.Decks.Fetch(ctx, studySetID)
	case strings.HasPrefix(studySetID, RemotePrefix):
		if r.Remote == nil {
			return nil, fmt.Errorf("remote decks are not configured: %w", study.ErrUnknownStudySet)
		}
		return r.Remote.Fetch(ctx, studySetID)
	}
	return r.Notebooks.Fetch(ctx, studySetID)
}
