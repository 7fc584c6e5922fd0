package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report backing files changed by other processes",
	Long: `Watch every mapping's backing file and report changes made outside
jsonstore. Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	p, err := dataProvider()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := newStyles(cmd.OutOrStdout())
	cmd.Printf("Watching %d mapping(s). Press Ctrl+C to stop.\n", len(p.Mappings()))

	err = p.WatchExternalChanges(ctx, func(change domain.ExternalChange) {
		cmd.Printf("%s  %s %s %s\n",
			st.Muted(time.Now().Format(time.TimeOnly)),
			st.Warning(change.Kind.String()),
			st.Title(change.Mapping),
			change.Path,
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to watch backing files: %w", err)
	}
	return nil
}
