package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
)

type entryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository implementation
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Insert(ctx context.Context, e models.VocabularyEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("inserting entry: notebook_id=%d, expression=%s", e.NotebookID, e.Expression)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO vocabulary_entries (notebook_id, expression, reading, meaning)
VALUES (?, ?, ?, ?)
`, e.NotebookID, e.Expression, e.Reading, e.Meaning)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert entry: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get entry id: %v", err)
		return 0, err
	}
	log.Debug("entry inserted: id=%d", id)
	return id, nil
}

func (r *entryRepository) InsertBatch(ctx context.Context, notebookID int64, entries []models.VocabularyEntry) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("batch inserting %d entries into notebook %d", len(entries), notebookID)

	if len(entries) == 0 {
		return nil, nil
	}

	var insertedIDs []int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO vocabulary_entries (notebook_id, expression, reading, meaning)
VALUES (?, ?, ?, ?)
ON CONFLICT(notebook_id, expression, reading, meaning) DO NOTHING
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			res, err := stmt.ExecContext(ctx, notebookID, e.Expression, e.Reading, e.Meaning)
			if err != nil {
				log.Error("failed to insert entry %s: %v", e.Expression, err)
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				continue
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			insertedIDs = append(insertedIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("batch insert completed: %d new entries", len(insertedIDs))
	return insertedIDs, nil
}

func applyEntryFilter(query squirrel.SelectBuilder, filter models.EntryFilter) squirrel.SelectBuilder {
	if filter.NotebookID != 0 {
		query = query.Where(squirrel.Eq{"notebook_id": filter.NotebookID})
	}
	if filter.Query != "" {
		pattern := likePattern(strings.ToLower(filter.Query))
		query = query.Where(squirrel.Or{
			squirrel.Expr(`fold(expression) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`fold(reading) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`fold(meaning) LIKE ? ESCAPE '\'`, pattern),
		})
	}
	return query
}

func (r *entryRepository) List(ctx context.Context, filter models.EntryFilter) ([]models.VocabularyEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("listing entries: notebook_id=%d, query=%q, limit=%d, offset=%d",
		filter.NotebookID, filter.Query, filter.Limit, filter.Offset)

	query := applyEntryFilter(
		sqlBuilder.Select("id", "notebook_id", "expression", "reading", "meaning", "created_at").From("vocabulary_entries"),
		filter,
	).OrderBy("id ASC")

	// A zero limit lists everything; sqlite needs LIMIT before OFFSET.
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	}

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to list entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.VocabularyEntry
	for rows.Next() {
		var e models.VocabularyEntry
		if err := rows.Scan(&e.ID, &e.NotebookID, &e.Expression, &e.Reading, &e.Meaning, &e.CreatedAt); err != nil {
			log.Error("failed to scan entry row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d entries", len(entries))
	return entries, rows.Err()
}

func (r *entryRepository) Count(ctx context.Context, filter models.EntryFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")

	sql, args, err := applyEntryFilter(sqlBuilder.Select("COUNT(*)").From("vocabulary_entries"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		log.Error("failed to count entries: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *entryRepository) Delete(ctx context.Context, notebookID, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("deleting entry: notebook_id=%d, id=%d", notebookID, id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM vocabulary_entries WHERE id = ? AND notebook_id = ?`, id, notebookID)
	if err != nil {
		log.Error("failed to delete entry: %v", err)
		return err
	}
	return expectAffected(res)
}
