package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
	"github.com/vytor/torii/internal/srs"
)

const defaultDueLimit = 20

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Get(ctx context.Context, entryID int64) (*models.CardReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting card review: entry_id=%d", entryID)

	var c models.CardReview
	err := r.db.QueryRowContext(ctx, `
SELECT entry_id, due_at, interval_days, ease_factor, times_reviewed, times_correct
FROM card_reviews
WHERE entry_id = ?
`, entryID).Scan(&c.EntryID, &c.DueAt, &c.IntervalDays, &c.EaseFactor, &c.TimesReviewed, &c.TimesCorrect)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get card review: %v", err)
		}
		return nil, err
	}
	return &c, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, c models.CardReview) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("saving card review: entry_id=%d, interval=%d, ease=%.2f", c.EntryID, c.IntervalDays, c.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO card_reviews (entry_id, due_at, interval_days, ease_factor, times_reviewed, times_correct)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(entry_id) DO UPDATE SET
    due_at = excluded.due_at,
    interval_days = excluded.interval_days,
    ease_factor = excluded.ease_factor,
    times_reviewed = excluded.times_reviewed,
    times_correct = excluded.times_correct
`, c.EntryID, c.DueAt.UTC(), c.IntervalDays, c.EaseFactor, c.TimesReviewed, c.TimesCorrect)
	if err != nil {
		log.Error("failed to save card review: %v", err)
	}
	return err
}

func (r *reviewRepository) Due(ctx context.Context, notebookID int64, now time.Time, limit int) ([]models.DueCard, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching due cards: notebook_id=%d, limit=%d", notebookID, limit)

	if limit <= 0 {
		limit = defaultDueLimit
	}
	now = now.UTC()

	query := sqlBuilder.Select(
		"e.id", "e.notebook_id", "e.expression", "e.reading", "e.meaning", "e.created_at",
		"r.due_at", "r.interval_days", "r.ease_factor", "r.times_reviewed", "r.times_correct",
	).
		From("vocabulary_entries e").
		LeftJoin("card_reviews r ON r.entry_id = e.id").
		Where(squirrel.Eq{"e.notebook_id": notebookID}).
		Where(squirrel.Or{
			squirrel.Eq{"r.entry_id": nil},
			squirrel.LtOrEq{"r.due_at": now},
		}).
		// Never-reviewed cards first, then the most overdue.
		OrderBy("r.due_at IS NOT NULL", "r.due_at ASC", "e.id ASC").
		Limit(uint64(limit))

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.DueCard
	for rows.Next() {
		var (
			c        models.DueCard
			dueAt    sql.NullTime
			interval sql.NullInt64
			ease     sql.NullFloat64
			reviewed sql.NullInt64
			correct  sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.NotebookID, &c.Expression, &c.Reading, &c.Meaning, &c.CreatedAt,
			&dueAt, &interval, &ease, &reviewed, &correct); err != nil {
			log.Error("failed to scan due card row: %v", err)
			return nil, err
		}
		if dueAt.Valid {
			c.Review = models.CardReview{
				EntryID:       c.ID,
				DueAt:         dueAt.Time,
				IntervalDays:  int(interval.Int64),
				EaseFactor:    ease.Float64,
				TimesReviewed: int(reviewed.Int64),
				TimesCorrect:  int(correct.Int64),
			}
		} else {
			c.Review = srs.NewReview(c.ID, now)
		}
		cards = append(cards, c)
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *reviewRepository) InsertHistory(ctx context.Context, entryID int64, quality int, reviewedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review history: entry_id=%d, quality=%d", entryID, quality)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (entry_id, quality, reviewed_at)
VALUES (?, ?, ?)
`, entryID, quality, reviewedAt.UTC())
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}
