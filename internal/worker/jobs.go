package worker

import (
	"context"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
)

// RecordResultJob stores a finished quiz run.
type RecordResultJob struct {
	Results repository.ResultRepository
	Result  models.QuizResult
}

func (j *RecordResultJob) Name() string { return "record_quiz_result" }

func (j *RecordResultJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session":   j.Result.SessionID,
		"study_set": j.Result.StudySetID,
	})

	id, err := j.Results.Insert(ctx, j.Result)
	if err != nil {
		return err
	}
	log.Debug("quiz result stored: id=%d, score=%d/%d", id, j.Result.CorrectAnswers, j.Result.TotalQuestions)
	return nil
}
