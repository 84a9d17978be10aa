package format

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-400 * 24 * time.Hour)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 10 * time.Second, want: "Now"},
		{ago: time.Minute, want: "1 Minute ago"},
		{ago: 5 * time.Minute, want: "5 Minutes ago"},
		{ago: time.Hour, want: "1 Hour ago"},
		{ago: 23 * time.Hour, want: "23 Hours ago"},
		{ago: 24 * time.Hour, want: "1 Day ago"},
		{ago: 29 * 24 * time.Hour, want: "29 Days ago"},
		{ago: 30 * 24 * time.Hour, want: "1 Month ago"},
		{ago: 200 * 24 * time.Hour, want: "6 Months ago"},
		{ago: 400 * 24 * time.Hour, want: old.Format(DateLayout)},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Elapsed(now.Add(-tt.ago), now); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "Eren<br>Mikasa", want: "Eren Mikasa"},
		{in: "<i>Titans</i> are\n\n coming<br/>", want: "Titans are coming"},
		{in: "(Source: Kodansha)<br><br>\n<i>Note: ep 1</i>", want: "(Source: Kodansha) Note: ep 1"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q): Expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestCapFirst(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"action": "Action",
		"Drama":  "Drama",
		"élan":   "Élan",
		"1st":    "1st",
	}
	for in, want := range tests {
		if got := CapFirst(in); got != want {
			t.Errorf("CapFirst(%q): Expected %q, got %q", in, want, got)
		}
	}
}

func TestTrimNewLines(t *testing.T) {
	if got := TrimNewLines("a\nb\r\n\tc"); got != "a b c" {
		t.Errorf("Expected %q, got %q", "a b c", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Attack on Titan", 6); got != "Attac…" {
		t.Errorf("Expected %q, got %q", "Attac…", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected %q, got %q", "short", got)
	}
}
