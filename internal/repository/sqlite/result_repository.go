package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
)

const defaultResultLimit = 50

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, res models.QuizResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting quiz result: session=%s, study_set=%s, score=%d/%d",
		res.SessionID, res.StudySetID, res.CorrectAnswers, res.TotalQuestions)

	out, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_results (session_id, study_set_id, total_questions, correct_answers, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?)
`, res.SessionID, res.StudySetID, res.TotalQuestions, res.CorrectAnswers, res.StartedAt.UTC(), res.FinishedAt.UTC())
	if err != nil {
		log.Error("failed to insert quiz result: %v", err)
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		log.Error("failed to get quiz result id: %v", err)
		return 0, err
	}
	log.Debug("quiz result inserted: id=%d", id)
	return id, nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing quiz results: study_set=%s, limit=%d, offset=%d", filter.StudySetID, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"id", "session_id", "study_set_id", "total_questions", "correct_answers", "started_at", "finished_at",
	).From("quiz_results")
	if filter.StudySetID != "" {
		query = query.Where(squirrel.Eq{"study_set_id": filter.StudySetID})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.OrderBy("finished_at DESC", "id DESC").Limit(uint64(limit)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to list quiz results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var q models.QuizResult
		if err := rows.Scan(&q.ID, &q.SessionID, &q.StudySetID, &q.TotalQuestions, &q.CorrectAnswers, &q.StartedAt, &q.FinishedAt); err != nil {
			log.Error("failed to scan quiz result row: %v", err)
			return nil, err
		}
		results = append(results, q)
	}
	log.Debug("found %d quiz results", len(results))
	return results, rows.Err()
}

// Stats aggregates results of one study set, or of every set when studySetID is empty.
func (r *resultRepository) Stats(ctx context.Context, studySetID string) (*models.QuizStats, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("computing quiz stats: study_set=%s", studySetID)

	where := squirrel.Eq{}
	if studySetID != "" {
		where["study_set_id"] = studySetID
	}

	statsSQL, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(total_questions), 0)",
		"COALESCE(SUM(correct_answers), 0)",
		"COALESCE(MAX(correct_answers), 0)",
	).From("quiz_results").Where(where).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	stats := models.QuizStats{StudySetID: studySetID}
	if err := r.db.QueryRowContext(ctx, statsSQL, args...).Scan(&stats.Attempts, &stats.TotalQuestions, &stats.CorrectAnswers, &stats.BestScore); err != nil {
		log.Error("failed to compute quiz stats: %v", err)
		return nil, err
	}
	if stats.TotalQuestions > 0 {
		stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
	}

	lastSQL, lastArgs, err := sqlBuilder.Select("finished_at").From("quiz_results").Where(where).
		OrderBy("finished_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var last models.QuizResult
	err = r.db.QueryRowContext(ctx, lastSQL, lastArgs...).Scan(&last.FinishedAt)
	switch {
	case err == nil:
		stats.LastFinishedAt = &last.FinishedAt
	case !errors.Is(err, sql.ErrNoRows):
		log.Error("failed to get last finished quiz: %v", err)
		return nil, err
	}

	log.Debug("quiz stats: attempts=%d, accuracy=%.1f", stats.Attempts, stats.Accuracy)
	return &stats, nil
}
