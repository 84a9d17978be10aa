package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

func TestClient_ProfileGraphQL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Variables["login"] != "octocat" {
			t.Errorf("unexpected variables %v", req.Variables)
		}
		w.Write([]byte(`{"data":{"user":{"login":"octocat","name":"The Octocat","bio":"hi","location":"SF","createdAt":"2011-01-25T18:44:36Z","followers":{"totalCount":10},"following":{"totalCount":2},"repositories":{"totalCount":8}}}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop(), srv.Client(), srv.URL, "", "token")
	p, err := c.Profile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Login != "octocat" || p.Name != "The Octocat" || p.Followers != 10 || p.Repositories != 8 {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.CreatedAt.Year() != 2011 {
		t.Fatalf("unexpected created at: %s", p.CreatedAt)
	}
}

func TestClient_ProfileGraphQLErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "graphql error",
			status: http.StatusOK,
			body:   `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User"}]}`,
			check: func(t *testing.T, err error) {
				var remote *domain.RemoteError
				if !errors.As(err, &remote) || remote.Code != "NOT_FOUND" {
					t.Fatalf("Expected NOT_FOUND remote error, got %v", err)
				}
			},
		},
		{
			name:   "bad credentials",
			status: http.StatusUnauthorized,
			body:   `{"message":"Bad credentials"}`,
			check: func(t *testing.T, err error) {
				var remote *domain.RemoteError
				if !errors.As(err, &remote) || remote.Message != "Bad credentials" {
					t.Fatalf("Expected bad credentials, got %v", err)
				}
			},
		},
		{
			name:   "null user",
			status: http.StatusOK,
			body:   `{"data":{"user":null}}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrEmptyResult) {
					t.Fatalf("Expected empty result, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(zerolog.Nop(), srv.Client(), srv.URL, "", "token")
			_, err := c.Profile(context.Background(), "ghost")
			if err == nil {
				t.Fatal("Expected error")
			}
			tt.check(t, err)
		})
	}
}

const profilePage = `<html><body>
<img class="avatar-user" src="https://avatars.example/u/1">
<h1><span class="p-name">The Octocat</span><span class="p-nickname">octocat</span></h1>
<div class="p-note">Loves anime</div>
<span class="p-org">GitHub</span>
<span class="p-label">San Francisco</span>
<a href="/octocat?tab=followers"><span class="text-bold">1.2k</span> followers</a>
<a href="/octocat?tab=following"><span class="text-bold">9</span> following</a>
<a href="/octocat?tab=repositories">Repositories <span class="Counter">8</span></a>
</body></html>`

func TestScraper_Profile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/octocat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(profilePage))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop(), nil, "", srv.URL, "")
	p, err := c.Profile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Login != "octocat" || p.Name != "The Octocat" || p.Bio != "Loves anime" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.Company != "GitHub" || p.Location != "San Francisco" || p.AvatarURL != "https://avatars.example/u/1" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.Followers != 1200 || p.Following != 9 || p.Repositories != 8 {
		t.Fatalf("unexpected counters: %+v", p)
	}
}

func TestScraper_ProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewScraper(zerolog.Nop(), srv.URL)
	_, err := s.Profile(context.Background(), "ghost")

	var remote *domain.RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 remote error, got %v", err)
	}
}

func TestParseCount(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"42":    42,
		"1,234": 1234,
		"1.2k":  1200,
		"3K":    3000,
		"2m":    2000000,
		"n/a":   0,
	}
	for in, want := range tests {
		if got := ParseCount(in); got != want {
			t.Errorf("ParseCount(%q) = %d, want %d", in, got, want)
		}
	}
}
