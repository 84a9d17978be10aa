package domain

import "strings"

// Anime stores information about an anime as served by the catalog API
type Anime struct {
	ID              int               `json:"id" yaml:"id"`
	AniListID       int               `json:"anilist_id,omitempty" yaml:"anilistId,omitempty"`
	MalID           int               `json:"mal_id,omitempty" yaml:"malId,omitempty"`
	TmdbID          int               `json:"tmdb_id,omitempty" yaml:"tmdbId,omitempty"`
	Format          Format            `json:"format" yaml:"format"`
	Status          Status            `json:"status" yaml:"status"`
	Titles          map[string]string `json:"titles" yaml:"titles"`
	Descriptions    map[string]string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	StartDate       string            `json:"start_date,omitempty" yaml:"startDate,omitempty"`
	EndDate         string            `json:"end_date,omitempty" yaml:"endDate,omitempty"`
	SeasonPeriod    Season            `json:"season_period" yaml:"seasonPeriod"`
	SeasonYear      int               `json:"season_year,omitempty" yaml:"seasonYear,omitempty"`
	EpisodesCount   int               `json:"episodes_count,omitempty" yaml:"episodesCount,omitempty"`
	EpisodeDuration int               `json:"episode_duration,omitempty" yaml:"episodeDuration,omitempty"`
	CoverImage      string            `json:"cover_image,omitempty" yaml:"coverImage,omitempty"`
	CoverColor      string            `json:"cover_color,omitempty" yaml:"coverColor,omitempty"`
	BannerImage     string            `json:"banner_image,omitempty" yaml:"bannerImage,omitempty"`
	Genres          []string          `json:"genres,omitempty" yaml:"genres,omitempty"`
	Score           int               `json:"score,omitempty" yaml:"score,omitempty"`
	NSFW            bool              `json:"nsfw" yaml:"nsfw"`
}

// Title returns the english title, or the first non-empty one
func (a Anime) Title() string {
	if t := strings.TrimSpace(a.Titles["en"]); t != "" {
		return t
	}
	for _, lang := range []string{"rj", "jp", "it", "fr", "de", "es"} {
		if t := strings.TrimSpace(a.Titles[lang]); t != "" {
			return t
		}
	}
	for _, t := range a.Titles {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

// Description returns the english description, if any
func (a Anime) Description() string {
	if d, ok := a.Descriptions["en"]; ok {
		return d
	}
	for _, d := range a.Descriptions {
		return d
	}
	return ""
}

// AnimePage is one page of a list query
type AnimePage struct {
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	Count       int     `json:"count"`
	Documents   []Anime `json:"documents"`
}

// Format is the catalog's numeric media format
type Format int

const (
	FormatTV Format = iota
	FormatTVShort
	FormatMovie
	FormatSpecial
	FormatOVA
	FormatONA
	FormatMusic
)

var formatNames = []string{"TV", "TV_SHORT", "MOVIE", "SPECIAL", "OVA", "ONA", "MUSIC"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "UNKNOWN"
}

// ParseFormat parses a format name such as "movie" or "TV_SHORT"
func ParseFormat(s string) (Format, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range formatNames {
		if name == s {
			return Format(i), true
		}
	}
	return 0, false
}

// Status is the catalog's airing status
type Status int

const (
	StatusFinished Status = iota
	StatusReleasing
	StatusNotYetReleased
	StatusCancelled
)

var statusNames = []string{"FINISHED", "RELEASING", "NOT_YET_RELEASED", "CANCELLED"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// ParseStatus parses a status name such as "releasing"
func ParseStatus(s string) (Status, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range statusNames {
		if name == s {
			return Status(i), true
		}
	}
	return 0, false
}

// Season is the catalog's airing season
type Season int

const (
	SeasonWinter Season = iota
	SeasonSpring
	SeasonSummer
	SeasonFall
	SeasonUnknown
)

var seasonNames = []string{"WINTER", "SPRING", "SUMMER", "FALL", "UNKNOWN"}

func (s Season) String() string {
	if s >= 0 && int(s) < len(seasonNames) {
		return seasonNames[s]
	}
	return "UNKNOWN"
}

// ParseSeason parses a season name such as "spring"
func ParseSeason(s string) (Season, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range seasonNames {
		if name == s {
			return Season(i), true
		}
	}
	return 0, false
}
