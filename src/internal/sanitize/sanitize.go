package sanitize

import (
	"net/url"
	"strings"
	"unicode"

	"bookscraper/src/internal/schema"
)

// CleanString trims and removes control and bidi formatting characters,
// collapsing every run of whitespace to one space, up to max bytes (if
// max <= 0, no truncation).
func CleanString(s string, max int) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
		if max > 0 && b.Len() >= max {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanText is CleanString without a length limit; used on every page fragment.
func CleanText(s string) string { return CleanString(s, 0) }

// StripLabel removes a leading label such as "ISBN-13" or "Publisher" and the
// colon and spaces that follow it. s is returned cleaned but otherwise
// unchanged when it does not start with label.
func StripLabel(s, label string) string {
	s = CleanText(s)
	if !strings.HasPrefix(s, label) {
		return s
	}
	return strings.TrimLeft(strings.TrimPrefix(s, label), ": ")
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Path = strings.ReplaceAll(u.Path, " ", "%20")
	return u.String()
}

func cleanOpt(p *string, max int) *string {
	if p == nil {
		return nil
	}
	return schema.Opt(CleanString(*p, max))
}

// CleanBook applies conservative sanitization to the free-text fields of b.
// Author records are immutable and were built from cleaned text already.
func CleanBook(b *schema.Book) {
	if b == nil {
		return
	}
	b.Title = CleanString(b.Title, 512)
	b.Subtitle = cleanOpt(b.Subtitle, 512)
	b.Publisher = cleanOpt(b.Publisher, 256)
	b.ISBN10 = cleanOpt(b.ISBN10, 16)
	b.ISBN13 = cleanOpt(b.ISBN13, 16)
	b.URL = CleanURL(b.URL)
	if b.Authors == nil {
		b.Authors = []schema.Person{}
	}
}
