package vocabulary

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/study"
)

// DeckPrefix marks study set ids served from bundled decks.
const DeckPrefix = "builtin:"

//go:embed decks/*.json
var decksFS embed.FS

type deckFile struct {
	Name    string                   `json:"name"`
	Title   string                   `json:"title"`
	Entries []models.VocabularyEntry `json:"entries"`
}

// DeckSource serves the vocabulary decks compiled into the binary.
type DeckSource struct {
	decks map[string]deckFile
}

// NewDeckSource parses the bundled decks.
func NewDeckSource() (*DeckSource, error) {
	return loadDecks(decksFS, "decks")
}

func loadDecks(fsys fs.FS, dir string) (*DeckSource, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	src := &DeckSource{decks: make(map[string]deckFile, len(files))}
	for _, f := range files {
		if f.IsDir() || path.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		var deck deckFile
		if err := json.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("parse deck %s: %w", f.Name(), err)
		}
		if deck.Name == "" {
			deck.Name = strings.TrimSuffix(f.Name(), ".json")
		}
		if _, dup := src.decks[deck.Name]; dup {
			return nil, fmt.Errorf("duplicate deck name %q", deck.Name)
		}
		src.decks[deck.Name] = deck
	}
	return src, nil
}

// Decks lists the bundled decks sorted by name.
func (s *DeckSource) Decks() []models.Deck {
	out := make([]models.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		out = append(out, models.Deck{
			Name:       d.Name,
			Title:      d.Title,
			StudySetID: DeckPrefix + d.Name,
			EntryCount: len(d.Entries),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Entries returns a copy of the named deck's entries.
func (s *DeckSource) Entries(name string) ([]models.VocabularyEntry, bool) {
	d, ok := s.decks[name]
	if !ok {
		return nil, false
	}
	return append([]models.VocabularyEntry(nil), d.Entries...), true
}

// Fetch accepts ids with or without DeckPrefix.
func (s *DeckSource) Fetch(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, ok := s.Entries(strings.TrimPrefix(studySetID, DeckPrefix))
	if !ok {
		return nil, fmt.Errorf("deck %q: %w", studySetID, study.ErrUnknownStudySet)
	}
	return entries, nil
}
