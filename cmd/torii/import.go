package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/torii/internal/errors"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a JSON array of vocabulary entries into a notebook",
	Long: `Import reads a JSON array of {"expression", "reading", "meaning"} objects.
Entries already in the notebook are skipped. The notebook is created when missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("notebook", "", "Title of the notebook to import into")
	_ = importCmd.MarkFlagRequired("notebook")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("notebook")

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	entries, err := readEntries(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	notebook, err := findOrCreateNotebook(ctx, st.notebooks, title)
	if err != nil {
		return err
	}
	added, err := st.notebooks.AddEntries(ctx, notebook.ID, entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d entries into notebook %q (study set %d)\n",
		added, len(entries), notebook.Title, notebook.ID)
	return nil
}

func readEntries(r io.Reader) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries found")
	}
	return entries, nil
}

func findOrCreateNotebook(ctx context.Context, notebooks services.NotebookService, title string) (*models.Notebook, error) {
	notebook, err := notebooks.CreateNotebook(ctx, title)
	if err == nil {
		return notebook, nil
	}
	if errors.As(err).Code != errors.ErrCodeConflict {
		return nil, err
	}

	all, err := notebooks.ListNotebooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Title == strings.TrimSpace(title) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("notebook %q exists but could not be found", title)
}
