// Package amazon drives a book lookup on the Amazon storefront: it searches by
// ISBN, opens the first result, optionally switches binding, and hands the
// text it finds on the product page to the name, publisher and ISBN parsers.
package amazon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"bookscraper/src/internal/config"
	"bookscraper/src/internal/fetch"
	"bookscraper/src/internal/isbn"
	"bookscraper/src/internal/metrics"
	"bookscraper/src/internal/names"
	"bookscraper/src/internal/sanitize"
	"bookscraper/src/internal/schema"
)

// ErrNoResults means the search page listed no products.
var ErrNoResults = errors.New("amazon: no search results")

// Selectors that must be present on a genuine page of each kind.
const (
	searchMarker = "h2"
	detailMarker = "#productTitle"
)

// Pager loads and parses pages; *fetch.Loader implements it.
type Pager interface {
	Document(ctx context.Context, ref, marker string) (*goquery.Document, error)
	URL(ref string) (string, error)
}

type Options struct {
	FallbackYear int
	Retries      int
	RetryBackoff time.Duration
	DumpDir      string
}

// OptionsFrom copies the lookup settings out of cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		FallbackYear: cfg.FallbackYear,
		Retries:      cfg.Retries,
		RetryBackoff: cfg.RetryBackoff,
		DumpDir:      cfg.DumpDir,
	}
}

// Client is safe for concurrent use when its Pager is.
type Client struct {
	pages Pager
	names *names.Parser
	opts  Options
}

// New returns a Client. A nil parser means names.NewParser(nil).
func New(pages Pager, parser *names.Parser, opts Options) *Client {
	if parser == nil {
		parser = names.NewParser(nil)
	}
	return &Client{pages: pages, names: parser, opts: opts}
}

// SearchPath is the storefront search for an ISBN within books.
func SearchPath(normISBN string) string {
	return "/s?i=stripbooks&rh=p_66%3A" + url.QueryEscape(normISBN)
}

// Lookup returns the book for rawISBN. format selects a binding such as
// "paperback" or "hardcover"; empty keeps whatever the first result shows.
func (c *Client) Lookup(ctx context.Context, rawISBN, format string) (schema.Book, error) {
	norm, ok := isbn.Normalize(rawISBN)
	if !ok {
		return schema.Book{}, fmt.Errorf("invalid ISBN: %s", rawISBN)
	}
	book, err := c.lookup(ctx, norm, format)
	if err != nil {
		metrics.Books.WithLabelValues("failed").Inc()
		return schema.Book{}, err
	}
	metrics.Books.WithLabelValues("ok").Inc()
	return book, nil
}

func (c *Client) lookup(ctx context.Context, norm, format string) (schema.Book, error) {
	slog.Debug("isbn detected", "isbn", norm)
	search, err := c.document(ctx, SearchPath(norm), searchMarker)
	if err != nil {
		return schema.Book{}, err
	}
	first, err := FirstResult(search)
	if err != nil {
		return schema.Book{}, fmt.Errorf("%w for ISBN %s", err, norm)
	}

	ref := first.Href
	doc, err := c.document(ctx, ref, detailMarker)
	if err != nil {
		return schema.Book{}, err
	}
	if format = strings.ToLower(strings.TrimSpace(format)); format != "" {
		if href, ok := Formats(doc)[format]; ok {
			slog.Info("redirecting to different format", "format", format)
			ref = href
			if doc, err = c.document(ctx, ref, detailMarker); err != nil {
				return schema.Book{}, err
			}
		} else {
			slog.Info("requested format not available", "format", format)
		}
	}

	book, err := c.Extract(doc)
	if err != nil {
		return schema.Book{}, err
	}
	if book.URL, err = c.pages.URL(ref); err != nil {
		return schema.Book{}, err
	}
	sanitize.CleanBook(&book)
	if err := book.Validate(); err != nil {
		return schema.Book{}, fmt.Errorf("amazon: %s: %w", norm, err)
	}
	return book, nil
}

// document loads ref, retrying with a linearly growing pause while the site
// answers with a bot check.
func (c *Client) document(ctx context.Context, ref, marker string) (*goquery.Document, error) {
	for attempt := 0; ; attempt++ {
		doc, err := c.pages.Document(ctx, ref, marker)
		if err == nil || !errors.Is(err, fetch.ErrBlocked) || attempt >= c.opts.Retries {
			return doc, err
		}
		wait := c.opts.RetryBackoff * time.Duration(attempt+1)
		slog.Warn("probably bot detected, trying again", "ref", ref, "attempt", attempt+1, "wait", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Result is one search hit.
type Result struct {
	Text string
	Href string
}

// FirstResult returns the first linked heading on a search page.
func FirstResult(doc *goquery.Document) (Result, error) {
	var res Result
	found := false
	doc.Find("h2 a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		res = Result{Text: sanitize.CleanText(s.Text()), Href: strings.TrimSpace(href)}
		found = true
		return false
	})
	if !found {
		return Result{}, ErrNoResults
	}
	return res, nil
}

// Formats maps each lower-cased binding name in the format swatches to its link.
func Formats(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	doc.Find("#tmmSwatches span.a-button-inner").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		label := sanitize.CleanText(link.Find("span").First().Text())
		if label == "" {
			return
		}
		out[strings.ToLower(label)] = href
	})
	return out
}
