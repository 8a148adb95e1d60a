package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/torii/internal/config"
	"github.com/vytor/torii/internal/db"
	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/repository/sqlite"
	"github.com/vytor/torii/internal/services"
	"github.com/vytor/torii/internal/vocabulary"
)

var rootCmd = &cobra.Command{
	Use:          "torii",
	Short:        "Japanese vocabulary study service",
	Long:         "Torii serves multiple-choice quizzes and flashcards built from vocabulary notebooks and bundled decks.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(quizCmd)
}

// loadConfig reads the environment, applies flag overrides and installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	))
	return cfg, nil
}

// store is the persistence and vocabulary wiring shared by every command.
type store struct {
	db        *db.DB
	source    vocabulary.Router
	notebooks services.NotebookService
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	decks, err := vocabulary.NewDeckSource()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("load decks: %w", err)
	}

	notebookRepo := sqlite.NewNotebookRepository(database.DB)
	entryRepo := sqlite.NewEntryRepository(database.DB)
	source := vocabulary.Router{
		Decks:     decks,
		Notebooks: vocabulary.NewNotebookSource(notebookRepo, entryRepo),
	}
	if cfg.RemoteDecksURL != "" {
		source.Remote = vocabulary.NewRemoteSource(cfg.RemoteDecksURL, cfg.RemoteTimeout)
	}
	return &store{
		db:        database,
		source:    source,
		notebooks: services.NewNotebookService(notebookRepo, entryRepo, decks),
	}, nil
}

func (s *store) Close() error {
	logger.Debug("closing database connection")
	return s.db.Close()
}
