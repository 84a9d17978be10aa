package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Cache the first pages of the catalog for offline use",
	Long: `Sync fetches the first pages of the catalog and stores every entry in the
local cache. It requires connectivity. When discord_webhook_url is set the
outcome is posted there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")

		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		stats, err := application.Sync(cmd.Context(), pages)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d pages in %s: %d fetched, %d stored, %d failed, %d cached in total\n",
			stats.Pages, stats.Duration.Round(time.Millisecond), stats.Fetched, stats.Stored, stats.Failed, stats.CachedTotal)
		return nil
	},
}

func init() {
	syncCmd.Flags().Int("pages", 1, "number of catalog pages to cache")
	rootCmd.AddCommand(syncCmd)
}
