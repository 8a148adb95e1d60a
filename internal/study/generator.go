package study

import (
	"fmt"
	"strings"

	"github.com/vytor/torii/internal/models"
)

// OptionCount is the number of choices offered per question.
const OptionCount = 4

// GenerateQuestions builds one multiple-choice question per distinct usable
// entry and returns them in random order. Distractors are drawn without
// replacement from the other distinct meanings in the set.
func GenerateQuestions(entries []models.VocabularyEntry, rng Rand) ([]models.QuizQuestion, error) {
	usable := UsableEntries(entries)
	if len(usable) == 0 {
		return nil, ErrEmptySet
	}

	meanings := distinctMeanings(usable)
	if len(meanings) < OptionCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientDistractors, len(meanings), OptionCount)
	}

	questions := make([]models.QuizQuestion, 0, len(usable))
	pool := make([]string, 0, len(meanings))
	for _, v := range usable {
		pool = pool[:0]
		for _, m := range meanings {
			if m != v.Meaning {
				pool = append(pool, m)
			}
		}

		// Partial Fisher-Yates: the first OptionCount-1 slots become a uniform sample.
		for i := 0; i < OptionCount-1; i++ {
			j := i + rng.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}

		options := make([]string, 0, OptionCount)
		options = append(options, v.Meaning)
		options = append(options, pool[:OptionCount-1]...)
		Shuffle(rng, options)

		questions = append(questions, models.QuizQuestion{
			Vocabulary:    v,
			Options:       options,
			CorrectAnswer: v.Meaning,
		})
	}

	Shuffle(rng, questions)
	return questions, nil
}

// UsableEntries trims whitespace, drops entries without an expression or
// meaning and removes exact duplicates, keeping first occurrences in order.
func UsableEntries(entries []models.VocabularyEntry) []models.VocabularyEntry {
	seen := make(map[models.EntryKey]bool, len(entries))
	out := make([]models.VocabularyEntry, 0, len(entries))
	for _, e := range entries {
		e.Expression = strings.TrimSpace(e.Expression)
		e.Reading = strings.TrimSpace(e.Reading)
		e.Meaning = strings.TrimSpace(e.Meaning)
		if e.Expression == "" || e.Meaning == "" {
			continue
		}
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}
	return out
}

func distinctMeanings(entries []models.VocabularyEntry) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !seen[e.Meaning] {
			seen[e.Meaning] = true
			out = append(out, e.Meaning)
		}
	}
	return out
}
