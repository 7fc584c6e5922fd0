package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [mapping]",
	Short: "Show recent commits",
	Long: `Show the snapshots recently written to backing files, newest first.
Without a mapping name, commits of every mapping are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of commits to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	var mapping string
	if len(args) == 1 {
		mapping = args[0]
	}

	records, err := p.History(cmd.Context(), mapping, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	st := newStyles(cmd.OutOrStdout())
	if len(records) == 0 {
		cmd.Println(st.Muted("No commits recorded."))
		return nil
	}
	for _, r := range records {
		digest := r.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		cmd.Printf("%s  %-10s %-16s %s  %d bytes  %s\n",
			st.Muted(r.CommittedAt.Local().Format(time.DateTime)),
			r.Mapping,
			r.Operation,
			st.ID(r.ItemID.String()),
			r.Bytes,
			st.Muted(digest),
		)
	}
	return nil
}
