package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/format"
)

// run observes a stream while load runs and prints the terminal state with show.
// Loading states drive a progress line on stderr.
func run[T any](cmd *cobra.Command, observe func(func(domain.RequestState[T])) func(), load func(), show func(io.Writer, T)) error {
	var (
		started bool
		final   domain.RequestState[T]
	)

	cancel := observe(func(st domain.RequestState[T]) {
		// skip the value left by an earlier request
		if !started {
			return
		}
		switch {
		case st.Kind == domain.StateLoading && st.Phase == domain.LoadingShow:
			fmt.Fprint(cmd.ErrOrStderr(), "Loading...")
		case st.Kind == domain.StateLoading:
			fmt.Fprint(cmd.ErrOrStderr(), "\r\033[K")
		default:
			final = st
		}
	})
	started = true
	load()
	cancel()

	switch final.Kind {
	case domain.StateSuccess:
		if final.IsOffline() {
			fmt.Fprintln(cmd.ErrOrStderr(), "You are offline. Showing cached data.")
		}
		show(cmd.OutOrStdout(), final.Data)
		return nil
	case domain.StateError:
		return errors.New(final.DisplayMessage())
	}
	return errors.New(domain.MessageFallback)
}

func printAnimeList(w io.Writer, list []domain.Anime) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFORMAT\tSEASON\tEPISODES\tSCORE")
	for _, a := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n",
			a.ID,
			format.Truncate(a.Title(), 48),
			a.Format,
			season(a),
			a.EpisodesCount,
			a.Score,
		)
	}
	tw.Flush()
}

func printAnime(w io.Writer, a *domain.Anime) {
	if a == nil {
		return
	}
	fmt.Fprintf(w, "%s (#%d)\n", a.Title(), a.ID)
	fmt.Fprintf(w, "  Format:   %s, %s\n", a.Format, format.CapFirst(strings.ToLower(a.Status.String())))
	fmt.Fprintf(w, "  Season:   %s\n", season(*a))
	if a.EpisodesCount > 0 {
		fmt.Fprintf(w, "  Episodes: %d x %d min\n", a.EpisodesCount, a.EpisodeDuration)
	}
	if len(a.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(a.Genres, ", "))
	}
	if a.Score > 0 {
		fmt.Fprintf(w, "  Score:    %d\n", a.Score)
	}
	if a.AniListID > 0 {
		fmt.Fprintf(w, "  AniList:  https://anilist.co/anime/%d\n", a.AniListID)
	}
	if a.MalID > 0 {
		fmt.Fprintf(w, "  MAL:      https://myanimelist.net/anime/%d\n", a.MalID)
	}
	if d := format.StripHTML(a.Description()); d != "" {
		fmt.Fprintf(w, "\n%s\n", format.TrimNewLines(d))
	}
}

func printProfile(w io.Writer, p *domain.Profile) {
	if p == nil {
		return
	}
	name := p.Name
	if name == "" {
		name = p.Login
	}
	fmt.Fprintf(w, "%s (@%s)\n", name, p.Login)
	if p.Bio != "" {
		fmt.Fprintf(w, "  %s\n", format.TrimNewLines(p.Bio))
	}
	for _, line := range [][2]string{
		{"Company", p.Company},
		{"Location", p.Location},
		{"Website", p.WebsiteURL},
		{"Profile", p.URL},
	} {
		if line[1] != "" {
			fmt.Fprintf(w, "  %-9s %s\n", line[0]+":", line[1])
		}
	}
	fmt.Fprintf(w, "  %d followers, %d following, %d repositories\n", p.Followers, p.Following, p.Repositories)
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Joined %s\n", format.Elapsed(p.CreatedAt, time.Now()))
	}
}

func season(a domain.Anime) string {
	if a.SeasonYear == 0 {
		return "-"
	}
	if a.SeasonPeriod == domain.SeasonUnknown {
		return fmt.Sprintf("%d", a.SeasonYear)
	}
	return fmt.Sprintf("%s %d", format.CapFirst(strings.ToLower(a.SeasonPeriod.String())), a.SeasonYear)
}
