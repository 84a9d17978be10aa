package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/varoOP/aniview/internal/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch connectivity and the local cache until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		feed, err := application.Feed(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cache: %w", err)
		}
		cached := feed.Subscribe()
		defer cached.Close()

		states := application.Watch(ctx, interval)
		defer states.Close()

		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case st, ok := <-states.C():
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "%s  connectivity: %s\n", time.Now().Format("15:04:05"), st)
			case list, ok := <-cached.C():
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "%s  cache: %d anime\n", time.Now().Format("15:04:05"), len(list))
				printRecent(out, list)
			}
		}
	},
}

func printRecent(out io.Writer, list []domain.Anime) {
	if len(list) > 5 {
		list = list[len(list)-5:]
	}
	for _, a := range list {
		fmt.Fprintf(out, "           #%d %s\n", a.ID, a.Title())
	}
}

func init() {
	watchCmd.Flags().Duration("interval", 10*time.Second, "connectivity polling interval")
	rootCmd.AddCommand(watchCmd)
}
