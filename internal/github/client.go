package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

const (
	DefaultAPIURL     = "https://api.github.com/graphql"
	DefaultProfileURL = "https://github.com"
)

const profileQuery = `query Profile($login: String!) {
  user(login: $login) {
    login
    name
    bio
    company
    location
    avatarUrl
    url
    websiteUrl
    createdAt
    followers { totalCount }
    following { totalCount }
    repositories(privacy: PUBLIC) { totalCount }
  }
}`

// Client loads GitHub profiles. With a token it uses the GraphQL API, without one
// it scrapes the public profile page.
type Client struct {
	log     zerolog.Logger
	http    *http.Client
	apiURL  string
	token   string
	scraper *Scraper
}

var _ domain.ProfileClient = (*Client)(nil)

// NewClient creates a GitHub client. httpClient is expected to carry the token header.
func NewClient(log zerolog.Logger, httpClient *http.Client, apiURL, profileURL, token string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		log:     log.With().Str("module", "github").Logger(),
		http:    httpClient,
		apiURL:  apiURL,
		token:   token,
		scraper: NewScraper(log, profileURL),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		User *struct {
			Login      string    `json:"login"`
			Name       string    `json:"name"`
			Bio        string    `json:"bio"`
			Company    string    `json:"company"`
			Location   string    `json:"location"`
			AvatarURL  string    `json:"avatarUrl"`
			URL        string    `json:"url"`
			WebsiteURL string    `json:"websiteUrl"`
			CreatedAt  time.Time `json:"createdAt"`
			Followers  struct {
				TotalCount int `json:"totalCount"`
			} `json:"followers"`
			Following struct {
				TotalCount int `json:"totalCount"`
			} `json:"following"`
			Repositories struct {
				TotalCount int `json:"totalCount"`
			} `json:"repositories"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
	// REST style error body, returned for auth failures
	Message string `json:"message"`
}

// Profile returns the profile of login
func (c *Client) Profile(ctx context.Context, login string) (*domain.Profile, error) {
	if strings.TrimSpace(login) == "" {
		return nil, errors.New("github login is required")
	}
	if c.token == "" {
		c.log.Debug().Str("login", login).Msg("no github token, scraping profile page")
		return c.scraper.Profile(ctx, login)
	}
	return c.query(ctx, login)
}

func (c *Client) query(ctx context.Context, login string) (*domain.Profile, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     profileQuery,
		Variables: map[string]any{"login": login},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	gr := &graphQLResponse{}
	if err := json.Unmarshal(body, gr); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &domain.RemoteError{StatusCode: resp.StatusCode, Message: domain.MessageNA}
		}
		return nil, errors.Wrapf(domain.ErrSerialization, "failed to unmarshal graphql response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.RemoteError{StatusCode: resp.StatusCode, Message: gr.Message}
	}
	if len(gr.Errors) > 0 {
		return nil, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Code:       gr.Errors[0].Type,
			Message:    gr.Errors[0].Message,
		}
	}

	u := gr.Data.User
	if u == nil {
		return nil, errors.Wrapf(domain.ErrEmptyResult, "no github user %q", login)
	}

	return &domain.Profile{
		Login:        u.Login,
		Name:         u.Name,
		Bio:          u.Bio,
		Company:      u.Company,
		Location:     u.Location,
		AvatarURL:    u.AvatarURL,
		URL:          u.URL,
		WebsiteURL:   u.WebsiteURL,
		Followers:    u.Followers.TotalCount,
		Following:    u.Following.TotalCount,
		Repositories: u.Repositories.TotalCount,
		CreatedAt:    u.CreatedAt,
	}, nil
}
