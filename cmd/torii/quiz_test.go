package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/services"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/testutil"
)

func newCLIQuizzes(entries []models.VocabularyEntry) services.QuizService {
	source := study.SourceFunc(func(ctx context.Context, studySetID string) ([]models.VocabularyEntry, error) {
		return entries, nil
	})
	return services.NewQuizService(source, nil, nil, study.WithAdvanceDelay(0))
}

func TestPlayQuiz_FullRun(t *testing.T) {
	quizzes := newCLIQuizzes(testutil.Kanji())
	defer quizzes.Shutdown(context.Background())

	var out bytes.Buffer
	in := strings.NewReader("9\n1\n2\n3\n4\n1\nn\n")
	require.NoError(t, playQuiz(context.Background(), quizzes, "kanji", in, &out))

	text := out.String()
	assert.Contains(t, text, "[1/5]")
	assert.Contains(t, text, "[5/5]")
	assert.Contains(t, text, "Pick 1-4 or q to quit")
	assert.Contains(t, text, "/5 correct")
	assert.Contains(t, text, "Play again? [y/N]")
}

func TestPlayQuiz_Replay(t *testing.T) {
	quizzes := newCLIQuizzes(testutil.Kanji())
	defer quizzes.Shutdown(context.Background())

	var out bytes.Buffer
	in := strings.NewReader("1\n1\n1\n1\n1\ny\nq\n")
	require.NoError(t, playQuiz(context.Background(), quizzes, "kanji", in, &out))

	assert.Equal(t, 1, strings.Count(out.String(), "Finished:"))
	assert.Equal(t, 2, strings.Count(out.String(), "[1/5]"))
}

func TestPlayQuiz_QuitAndEOF(t *testing.T) {
	quizzes := newCLIQuizzes(testutil.Kanji())
	defer quizzes.Shutdown(context.Background())

	var out bytes.Buffer
	require.NoError(t, playQuiz(context.Background(), quizzes, "kanji", strings.NewReader("q\n"), &out))
	assert.NotContains(t, out.String(), "Finished:")

	out.Reset()
	require.NoError(t, playQuiz(context.Background(), quizzes, "kanji", strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "[1/5]")
}

func TestPlayQuiz_ErrorState(t *testing.T) {
	quizzes := newCLIQuizzes(nil)
	defer quizzes.Shutdown(context.Background())

	var out bytes.Buffer
	err := playQuiz(context.Background(), quizzes, "empty", strings.NewReader("y\nn\n"), &out)
	require.Error(t, err)
	assert.Equal(t, "No vocabularies found in this notebook", err.Error())
	assert.Equal(t, 2, strings.Count(out.String(), "Retry? [y/N]"))
}

func TestReadEntries(t *testing.T) {
	entries, err := readEntries(strings.NewReader(`[{"expression":"猫","reading":"ねこ","meaning":"cat"}]`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cat", entries[0].Meaning)

	_, err = readEntries(strings.NewReader(`[]`))
	assert.Error(t, err)

	_, err = readEntries(strings.NewReader(`[{"kanji":"猫"}]`))
	assert.Error(t, err)

	_, err = readEntries(strings.NewReader(`{"expression":"猫"}`))
	assert.Error(t, err)
}
