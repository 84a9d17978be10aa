package github

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

// Scraper reads a public GitHub profile page
type Scraper struct {
	log     zerolog.Logger
	baseURL string
}

// NewScraper creates a scraper for profile pages under baseURL
func NewScraper(log zerolog.Logger, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultProfileURL
	}
	return &Scraper{
		log:     log.With().Str("module", "github").Str("type", "scrape").Logger(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Profile scrapes the profile page of login
func (s *Scraper) Profile(ctx context.Context, login string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := s.baseURL + "/" + url.PathEscape(login)
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrap(err, "invalid profile url")
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname(), u.Host),
	)
	extensions.RandomUserAgent(c)

	var (
		profile   *domain.Profile
		scrapeErr error
	)

	c.OnRequest(func(r *colly.Request) {
		s.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		profile = parseProfile(e.DOM, login)
		profile.URL = target
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			scrapeErr = &domain.RemoteError{StatusCode: r.StatusCode, Message: err.Error()}
			return
		}
		scrapeErr = errors.Wrap(err, "failed to scrape profile")
	})

	if err := c.Visit(target); err != nil && scrapeErr == nil {
		scrapeErr = errors.Wrap(err, "failed to visit profile")
	}
	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if profile == nil || profile.Login == "" {
		return nil, errors.Wrapf(domain.ErrEmptyResult, "no profile found for %q", login)
	}

	return profile, nil
}

func parseProfile(doc *goquery.Selection, login string) *domain.Profile {
	text := func(sel string) string {
		return strings.TrimSpace(doc.Find(sel).First().Text())
	}

	p := &domain.Profile{
		Login:    text(".p-nickname"),
		Name:     text(".p-name"),
		Bio:      text(".p-note"),
		Company:  text(".p-org"),
		Location: text(".p-label"),
	}
	if p.Login == "" && p.Name != "" {
		p.Login = login
	}

	if src, ok := doc.Find("img.avatar-user").First().Attr("src"); ok {
		p.AvatarURL = src
	}
	if href, ok := doc.Find("li[itemprop=url] a, [data-test-selector=profile-website-url] a").First().Attr("href"); ok {
		p.WebsiteURL = href
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		count := a.Find(".text-bold, .Counter").First().Text()
		switch {
		case strings.HasSuffix(href, "tab=followers"):
			p.Followers = ParseCount(count)
		case strings.HasSuffix(href, "tab=following"):
			p.Following = ParseCount(count)
		case strings.HasSuffix(href, "tab=repositories"):
			p.Repositories = ParseCount(count)
		}
	})

	return p
}

// ParseCount parses GitHub counters such as "42", "1,234" or "1.2k"
func ParseCount(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult = 1e3
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult = 1e6
		s = strings.TrimSuffix(s, "m")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f * mult))
}
