// Package format holds text helpers used when rendering anime and profiles.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DateLayout is used for timestamps older than a year
const DateLayout = "02 Jan 2006 03:04 PM"

// Elapsed describes how long ago t was, relative to now
func Elapsed(t, now time.Time) string {
	d := now.Sub(t)
	minutes := int(d / time.Minute)
	hours := int(d / time.Hour)
	days := int(d / (24 * time.Hour))
	months := days / 30

	switch {
	case d < time.Minute:
		return "Now"
	case minutes < 60:
		return plural(minutes, "Minute")
	case hours < 24:
		return plural(hours, "Hour")
	case days < 30:
		return plural(days, "Day")
	case months < 12:
		return plural(months, "Month")
	}
	return t.Format(DateLayout)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// StripHTML returns the text content of an HTML fragment. Line breaks become
// spaces and whitespace runs are collapsed.
func StripHTML(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "br" || string(name) == "p" {
				b.WriteByte(' ')
			}
		}
	}
}

// CapFirst upper-cases the first rune of s
func CapFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// TrimNewLines replaces runs of tabs and line breaks with a single space
func TrimNewLines(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '\t'
	}), " ")
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
