package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List bundled decks and notebooks",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		notebooks, err := st.notebooks.ListNotebooks(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STUDY SET\tTITLE\tENTRIES")
		for _, d := range st.notebooks.ListDecks(ctx) {
			fmt.Fprintf(w, "%s\t%s\t%d\n", d.StudySetID, d.Title, d.EntryCount)
		}
		for _, n := range notebooks {
			fmt.Fprintf(w, "%d\t%s\t%d\n", n.ID, n.Title, n.EntryCount)
		}
		return w.Flush()
	},
}
