package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/aniview/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the first page of the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		svc := application.Anime
		return run(cmd, svc.AnimeList().Observe, func() { svc.LoadAnimeList(cmd.Context()) }, printAnimeList)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single anime by catalog id",
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

		svc := application.Anime
		return run(cmd, svc.Anime().Observe, func() { svc.LoadAnime(cmd.Context(), id) }, printAnime)
	},
}

var yearCmd = &cobra.Command{
	Use:   "year <year>",
	Short: "Show the first anime of a season year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", args[0], err)
		}

		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		svc := application.Anime
		return run(cmd, svc.Anime().Observe, func() { svc.LoadAnimeByYear(cmd.Context(), year) }, printAnime)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List anime matching the given criteria",
	Long: `Filter lists anime matching every given flag. Offline, the same criteria
are applied to the local cache.`,
	Example: `  aniview filter --title "Code Geass"
  aniview filter --genre Action --genre Mecha --format TV --year 2006`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		svc := application.Anime
		return run(cmd, svc.FilteredAnimeList().Observe, func() { svc.LoadFilteredAnimeList(cmd.Context(), criteria) }, printAnimeList)
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "List a random sample of anime",
	Long: `Random lists a random sample of the catalog. Offline, the sample is drawn
from the local cache.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		svc := application.Anime
		return run(cmd, svc.RandomAnimeList().Observe, func() { svc.LoadRandomAnimeList(cmd.Context()) }, printAnimeList)
	},
}

// criteriaFromFlags builds filter criteria from the flags that were set
func criteriaFromFlags(cmd *cobra.Command) (*domain.FilterCriteria, error) {
	flags := cmd.Flags()
	criteria := &domain.FilterCriteria{}

	criteria.Title, _ = flags.GetString("title")
	criteria.Genres, _ = flags.GetStringSlice("genre")

	formats, _ := flags.GetStringSlice("format")
	for _, f := range formats {
		parsed, ok := domain.ParseFormat(f)
		if !ok {
			return nil, fmt.Errorf("invalid format: %s", f)
		}
		criteria.Formats = append(criteria.Formats, parsed)
	}

	if flags.Changed("status") {
		s, _ := flags.GetString("status")
		parsed, ok := domain.ParseStatus(s)
		if !ok {
			return nil, fmt.Errorf("invalid status: %s", s)
		}
		criteria.Status = &parsed
	}
	if flags.Changed("season") {
		s, _ := flags.GetString("season")
		parsed, ok := domain.ParseSeason(s)
		if !ok {
			return nil, fmt.Errorf("invalid season: %s", s)
		}
		criteria.Season = &parsed
	}
	if flags.Changed("year") {
		y, _ := flags.GetInt("year")
		criteria.Year = &y
	}
	if flags.Changed("anilist-id") {
		id, _ := flags.GetInt("anilist-id")
		criteria.AniListID = &id
	}
	if flags.Changed("mal-id") {
		id, _ := flags.GetInt("mal-id")
		criteria.MalID = &id
	}
	if flags.Changed("only-nsfw") {
		nsfw, _ := flags.GetBool("only-nsfw")
		criteria.NSFW = &nsfw
	}

	if criteria.IsZero() {
		return nil, fmt.Errorf("at least one filter flag is required")
	}
	return criteria, nil
}

func init() {
	filterCmd.Flags().String("title", "", "title substring")
	filterCmd.Flags().StringSlice("genre", nil, "genre, repeatable")
	filterCmd.Flags().StringSlice("format", nil, "format (TV, TV_SHORT, MOVIE, SPECIAL, OVA, ONA, MUSIC), repeatable")
	filterCmd.Flags().String("status", "", "status (FINISHED, RELEASING, NOT_YET_RELEASED, CANCELLED)")
	filterCmd.Flags().String("season", "", "season (WINTER, SPRING, SUMMER, FALL)")
	filterCmd.Flags().Int("year", 0, "season year")
	filterCmd.Flags().Int("anilist-id", 0, "AniList id")
	filterCmd.Flags().Int("mal-id", 0, "MyAnimeList id")
	filterCmd.Flags().Bool("only-nsfw", false, "only NSFW entries (false excludes them)")

	randomCmd.Flags().Int("count", 10, "number of anime to sample (1-50)")
	viper.BindPFlag("random_count", randomCmd.Flags().Lookup("count"))

	rootCmd.AddCommand(listCmd, getCmd, yearCmd, filterCmd, randomCmd)
}
