package aniapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

const DefaultBaseURL = "https://api.aniapi.com"

// MaxRandomCount is the largest batch the random endpoint serves
const MaxRandomCount = 50

// Client talks to the AniAPI v1 REST endpoints
type Client struct {
	log     zerolog.Logger
	http    *http.Client
	baseURL *url.URL
}

var _ domain.AnimeClient = (*Client)(nil)

// envelope wraps every AniAPI response
type envelope struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Version    string          `json:"version"`
}

// errorResponse is the alternative error body shape {"error":{"code":..,"message":..}}
type errorResponse struct {
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a client against baseURL using the given http client
func NewClient(log zerolog.Logger, httpClient *http.Client, baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid api base url")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		log:     log.With().Str("module", "aniapi").Logger(),
		http:    httpClient,
		baseURL: u,
	}, nil
}

// ListAnime returns one page of anime matching criteria. A page past the end or a
// "nothing found" answer yields an empty page, not an error.
func (c *Client) ListAnime(ctx context.Context, criteria *domain.FilterCriteria, page int) (*domain.AnimePage, error) {
	q := EncodeCriteria(criteria)
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	out := &domain.AnimePage{}
	err := c.get(ctx, "/v1/anime", q, out)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			c.log.Debug().Str("message", remote.Message).Msg("list query matched nothing")
			return &domain.AnimePage{CurrentPage: page}, nil
		}
		if errors.Is(err, domain.ErrEmptyResult) {
			return &domain.AnimePage{CurrentPage: page}, nil
		}
		return nil, err
	}

	return out, nil
}

// GetAnime returns a single anime by its catalog id
func (c *Client) GetAnime(ctx context.Context, id int) (*domain.Anime, error) {
	out := &domain.Anime{}
	if err := c.get(ctx, path.Join("/v1/anime", strconv.Itoa(id)), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RandomAnime returns up to count random anime
func (c *Client) RandomAnime(ctx context.Context, count int, nsfw bool) ([]domain.Anime, error) {
	if count <= 0 {
		count = 1
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}

	var out []domain.Anime
	p := path.Join("/v1/random/anime", strconv.Itoa(count), strconv.FormatBool(nsfw))
	if err := c.get(ctx, p, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, p string, q url.Values, out any) error {
	target := c.baseURL.JoinPath(p)
	if len(q) > 0 {
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseRemoteError(resp.StatusCode, body)
	}

	env := &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return errors.Wrapf(domain.ErrSerialization, "failed to unmarshal response from %s: %v", p, err)
	}
	if env.StatusCode != 0 && (env.StatusCode < 200 || env.StatusCode >= 300) {
		return &domain.RemoteError{StatusCode: env.StatusCode, Message: env.Message}
	}

	data := strings.TrimSpace(string(env.Data))
	if data == "" || data == "null" {
		return errors.Wrapf(domain.ErrEmptyResult, "no data from %s", p)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(domain.ErrSerialization, "failed to unmarshal data from %s: %v", p, err)
	}

	c.log.Trace().Str("path", p).Str("version", env.Version).Msg("fetched")
	return nil
}

func parseRemoteError(status int, body []byte) error {
	remote := &domain.RemoteError{StatusCode: status}

	er := &errorResponse{}
	if err := json.Unmarshal(body, er); err == nil && er.Error != nil {
		if er.Error.Code != nil {
			remote.Code = fmt.Sprint(er.Error.Code)
		}
		remote.Message = er.Error.Message
		return remote
	}

	env := &envelope{}
	if err := json.Unmarshal(body, env); err == nil && env.Message != "" {
		remote.Message = env.Message
		return remote
	}

	remote.Message = domain.MessageNA
	return remote
}

// EncodeCriteria renders criteria as AniAPI query parameters
func EncodeCriteria(criteria *domain.FilterCriteria) url.Values {
	q := url.Values{}
	if criteria.IsZero() {
		return q
	}

	if criteria.Title != "" {
		q.Set("title", criteria.Title)
	}
	if criteria.AniListID != nil {
		q.Set("anilist_id", strconv.Itoa(*criteria.AniListID))
	}
	if criteria.MalID != nil {
		q.Set("mal_id", strconv.Itoa(*criteria.MalID))
	}
	if len(criteria.Formats) > 0 {
		formats := make([]string, 0, len(criteria.Formats))
		for _, f := range criteria.Formats {
			formats = append(formats, strconv.Itoa(int(f)))
		}
		q.Set("formats", strings.Join(formats, ","))
	}
	if criteria.Status != nil {
		q.Set("status", strconv.Itoa(int(*criteria.Status)))
	}
	if criteria.Year != nil {
		q.Set("year", strconv.Itoa(*criteria.Year))
	}
	if criteria.Season != nil {
		q.Set("season", strconv.Itoa(int(*criteria.Season)))
	}
	if len(criteria.Genres) > 0 {
		q.Set("genres", strings.Join(criteria.Genres, ","))
	}
	if criteria.NSFW != nil {
		q.Set("nsfw", strconv.FormatBool(*criteria.NSFW))
	}

	return q
}
