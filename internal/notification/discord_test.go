package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

func TestService_SendSuccess(t *testing.T) {
	var got discordWebhook
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := NewService(zerolog.Nop(), srv.URL)
	stats := domain.Statistics{Pages: 2, Fetched: 200, Stored: 198, Failed: 2, LastPage: 150, Duration: 3 * time.Second, FinishedAt: time.Now()}
	if err := svc.SendSuccess(context.Background(), stats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(got.Embeds))
	}
	if !strings.Contains(got.Embeds[0].Description, "198 anime from 2 pages") {
		t.Errorf("unexpected description %q", got.Embeds[0].Description)
	}
	if len(got.Embeds[0].Fields) != 6 {
		t.Errorf("Expected 6 fields, got %d", len(got.Embeds[0].Fields))
	}
}

func TestService_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewService(zerolog.Nop(), srv.URL)
	if err := svc.SendError(context.Background(), errors.New("boom")); err == nil {
		t.Fatal("Expected error for non-2xx webhook answer")
	}
}

func TestService_NoWebhook(t *testing.T) {
	svc := NewService(zerolog.Nop(), "")
	if err := svc.SendSuccess(context.Background(), domain.Statistics{}); err != nil {
		t.Fatalf("Expected no-op, got %v", err)
	}
	if err := svc.SendError(context.Background(), errors.New("boom")); err != nil {
		t.Fatalf("Expected no-op, got %v", err)
	}
}
