package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/torii/internal/db"
	"github.com/vytor/torii/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is limited to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open(db.DriverName, ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn, nil), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Kanji returns a small vocabulary set with distinct meanings.
func Kanji() []models.VocabularyEntry {
	return []models.VocabularyEntry{
		{Expression: "火", Reading: "ひ", Meaning: "fire"},
		{Expression: "水", Reading: "みず", Meaning: "water"},
		{Expression: "木", Reading: "き", Meaning: "tree"},
		{Expression: "金", Reading: "きん", Meaning: "gold"},
		{Expression: "土", Reading: "つち", Meaning: "earth"},
	}
}
