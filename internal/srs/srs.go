// Package srs schedules flashcard reviews with a variant of SM-2.
package srs

import (
	"fmt"
	"time"

	"github.com/vytor/torii/internal/models"
)

// Review quality grades.
const (
	Again = 0
	Hard  = 1
	Good  = 2
	Easy  = 3
)

const (
	DefaultEase = 2.5
	MinEase     = 1.3
)

// NewReview returns the schedule of a card that has never been reviewed. It is due immediately.
func NewReview(entryID int64, now time.Time) models.CardReview {
	return models.CardReview{
		EntryID:    entryID,
		DueAt:      now,
		EaseFactor: DefaultEase,
	}
}

// ValidQuality reports whether quality is one of Again, Hard, Good or Easy.
func ValidQuality(quality int) error {
	if quality < Again || quality > Easy {
		return fmt.Errorf("quality must be between %d and %d, got %d", Again, Easy, quality)
	}
	return nil
}

// ApplyReview returns the schedule after a review graded quality at now.
// Failing grades (Again, Hard) reset the interval to one day and the streak of correct answers.
func ApplyReview(review models.CardReview, quality int, now time.Time) models.CardReview {
	if review.EaseFactor == 0 {
		review.EaseFactor = DefaultEase
	}

	miss := float64(Easy - quality)
	ef := review.EaseFactor + 0.1 - miss*(0.08+miss*0.02)
	if ef < MinEase {
		ef = MinEase
	}

	interval := 1
	switch {
	case quality < Good:
		interval = 1
	case review.IntervalDays == 0:
		interval = 1
	case review.IntervalDays == 1:
		interval = 6
	default:
		interval = int(float64(review.IntervalDays) * ef)
	}

	review.TimesReviewed++
	if quality >= Good {
		review.TimesCorrect++
	} else {
		review.TimesCorrect = 0
	}
	review.IntervalDays = interval
	review.EaseFactor = ef
	review.DueAt = now.Add(time.Duration(interval) * 24 * time.Hour)
	return review
}
