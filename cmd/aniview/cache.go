package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached anime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		list, err := application.Anime.Cached(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		printAnimeList(cmd.OutOrStdout(), list)
		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export cached anime to a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d anime to %s\n", n, args[0])
		return nil
	},
}

var cacheImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import anime from a JSON or YAML file into the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		n, err := application.Import(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d anime from %s\n", n, args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached anime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Anime.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a cached anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}

		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Anime.Forget(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete %d: %w", id, err)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd, cacheExportCmd, cacheImportCmd, cacheClearCmd, cacheRmCmd)
	rootCmd.AddCommand(cacheCmd)
}
