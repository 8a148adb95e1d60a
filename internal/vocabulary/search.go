package vocabulary

import (
	"strings"

	"github.com/vytor/torii/internal/models"
)

// Search returns the entries whose expression, reading or meaning contains
// query, ignoring case. An empty query matches everything.
func Search(entries []models.VocabularyEntry, query string) []models.VocabularyEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []models.VocabularyEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Expression), query) ||
			strings.Contains(strings.ToLower(e.Reading), query) ||
			strings.Contains(strings.ToLower(e.Meaning), query) {
			out = append(out, e)
		}
	}
	return out
}
