package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/torii/internal/repository/sqlite"
	"github.com/vytor/torii/internal/services"
	"github.com/vytor/torii/internal/study"
	"github.com/vytor/torii/internal/worker"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <study-set-id>",
	Short: "Play a multiple-choice quiz in the terminal",
	Long: `Quiz plays a study set question by question. Study set ids are notebook ids
or bundled deck ids such as builtin:jlpt-n5 (see "torii decks").`,
	Args: cobra.ExactArgs(1),
	RunE: runQuiz,
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop(context.Background())

	quizzes := services.NewQuizService(st.source, sqlite.NewResultRepository(st.db.DB), pool,
		study.WithAdvanceDelay(cfg.AdvanceDelay))
	defer quizzes.Shutdown(context.Background())

	return playQuiz(ctx, quizzes, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
}

// playQuiz drives one quiz session from line-oriented input until the
// player quits, declines a replay or input ends.
func playQuiz(ctx context.Context, quizzes services.QuizService, studySetID string, in io.Reader, out io.Writer) error {
	session, err := quizzes.Start(ctx, studySetID)
	if err != nil {
		return err
	}
	id := session.ID
	defer quizzes.Close(ctx, id)

	states, cancel, err := quizzes.Subscribe(ctx, id)
	if err != nil {
		return err
	}
	defer cancel()

	input := bufio.NewScanner(in)
	for {
		current, err := quizzes.State(ctx, id)
		if err != nil {
			return err
		}
		state := current.State

		switch {
		case state.Phase == study.PhaseLoading || state.Answered():
			// Wait for the load or the auto-advance to publish.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-states:
				if !ok {
					return study.ErrClosed
				}
			}

		case state.Phase == study.PhaseError:
			fmt.Fprintf(out, "%s\n", state.Message)
			if !confirm(input, out, "Retry? [y/N] ") {
				return fmt.Errorf("%s", state.Message)
			}
			if _, err := quizzes.Retry(ctx, id); err != nil {
				return err
			}

		case state.Phase == study.PhaseFinished:
			fmt.Fprintf(out, "\nFinished: %d/%d correct\n", state.Score, state.TotalQuestions)
			if !confirm(input, out, "Play again? [y/N] ") {
				return nil
			}
			if _, err := quizzes.Restart(ctx, id); err != nil {
				return err
			}

		default:
			answer, ok := askQuestion(input, out, state)
			if !ok {
				return nil
			}
			answered, err := quizzes.Answer(ctx, id, answer)
			if err != nil {
				return err
			}
			if *answered.State.IsAnswerCorrect {
				fmt.Fprintf(out, "Correct! (%d/%d)\n", answered.State.Score, answered.State.TotalQuestions)
			} else {
				fmt.Fprintf(out, "Wrong, it means %q\n", answered.State.Question.CorrectAnswer)
			}
		}
	}
}

// askQuestion prints the current question and reads a choice. It reports
// false when input ends or the player types q.
func askQuestion(input *bufio.Scanner, out io.Writer, state study.State) (string, bool) {
	q := state.Question
	fmt.Fprintf(out, "\n[%d/%d] %s", state.CurrentIndex+1, state.TotalQuestions, q.Vocabulary.Expression)
	if q.Vocabulary.Reading != "" && q.Vocabulary.Reading != q.Vocabulary.Expression {
		fmt.Fprintf(out, " (%s)", q.Vocabulary.Reading)
	}
	fmt.Fprintln(out)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprint(out, "> ")
		if !input.Scan() {
			return "", false
		}
		line := strings.TrimSpace(input.Text())
		if strings.EqualFold(line, "q") {
			return "", false
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], true
		}
		if q.HasOption(line) {
			return line, true
		}
		fmt.Fprintf(out, "Pick 1-%d or q to quit\n", len(q.Options))
	}
}

func confirm(input *bufio.Scanner, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	if !input.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(input.Text()))
	return answer == "y" || answer == "yes"
}
