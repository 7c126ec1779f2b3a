package amazon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscraper/src/internal/isbn"
	"bookscraper/src/internal/metrics"
	"bookscraper/src/internal/pubinfo"
	"bookscraper/src/internal/sanitize"
	"bookscraper/src/internal/schema"
)

// priceSelectors are tried in order.
var priceSelectors = []string{"#listPrice", "#newBuyBoxPrice"}

var rePrice = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// DumpFile is written into Options.DumpDir when a page has no price.
const DumpFile = "dump_price_search.html"

// Extract reads a product page into a book. The URL is left for the caller. A
// malformed author name aborts the extraction.
func (c *Client) Extract(doc *goquery.Document) (schema.Book, error) {
	book := schema.NewBook()
	book.Year = c.opts.FallbackYear

	book.Title, book.Subtitle = splitTitle(sanitize.CleanText(doc.Find("#productTitle").First().Text()))
	slog.Info("found title", "title", book.Title, "subtitle", schema.Deref(book.Subtitle))

	if price, ok := findPrice(doc); ok {
		book.Price = price
		slog.Info("using price", "price", price)
	} else {
		slog.Warn("no price found")
		c.dump(doc)
	}

	var authorErr error
	doc.Find("span.author a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.ParentsFiltered(".a-popover-preload").Length() > 0 {
			return true
		}
		text := sanitize.CleanText(s.Text())
		if text == "" {
			return true
		}
		p, err := c.names.Parse(text)
		if err != nil {
			authorErr = fmt.Errorf("amazon: author: %w", err)
			return false
		}
		kind := "person"
		if p.IsOrganization() {
			kind = "organization"
		}
		metrics.AuthorsParsed.WithLabelValues(kind).Inc()
		book.AddAuthor(p)
		return true
	})
	if authorErr != nil {
		return schema.Book{}, authorErr
	}

	doc.Find("#detailBullets_feature_div li").Each(func(_ int, s *goquery.Selection) {
		c.applyBullet(&book, sanitize.CleanText(s.Text()))
	})
	return book, nil
}

// applyBullet fills the field a detail bullet describes, if any.
func (c *Client) applyBullet(book *schema.Book, text string) {
	switch {
	case strings.Contains(text, "Publisher"):
		res := pubinfo.Parse(sanitize.StripLabel(text, "Publisher"), c.opts.FallbackYear)
		metrics.PublisherGrammar.WithLabelValues(res.Grammar.String()).Inc()
		slog.Debug("publisher parsed", "grammar", res.Grammar, "publisher", res.Publisher, "edition", res.Edition, "year", res.Year)
		book.Publisher = schema.Opt(res.Publisher)
		book.Edition = res.Edition
		book.Year = res.Year
	case strings.Contains(text, "ISBN-10"):
		book.ISBN10 = isbnField(text, "ISBN-10", 10)
	case strings.Contains(text, "ISBN-13"):
		book.ISBN13 = isbnField(text, "ISBN-13", 13)
	}
}

// isbnField normalizes a labelled ISBN bullet; anything that does not come out
// with the expected length is logged and left absent.
func isbnField(text, label string, want int) *string {
	raw := sanitize.StripLabel(text, label)
	norm, ok := isbn.Normalize(raw)
	if !ok || isbn.Kind(norm) != want {
		metrics.ISBNRejected.WithLabelValues(strings.ToLower(strings.ReplaceAll(label, "-", ""))).Inc()
		slog.Warn("rejected isbn", "field", label, "raw", raw)
		return nil
	}
	return &norm
}

// splitTitle splits "Title: Subtitle" at the first ": ".
func splitTitle(full string) (string, *string) {
	title, sub, ok := strings.Cut(full, ": ")
	if !ok {
		return full, nil
	}
	return title, schema.Opt(sub)
}

// findPrice reads the first price element present. Prices are shown as
// "$1,299.00", sometimes twice when an offscreen copy is present.
func findPrice(doc *goquery.Document) (float64, bool) {
	for _, sel := range priceSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := el.Text()
		if off := el.Find(".a-offscreen").First(); off.Length() > 0 {
			text = off.Text()
		}
		if p, ok := parsePrice(text); ok {
			return p, true
		}
	}
	return 0, false
}

func parsePrice(text string) (float64, bool) {
	m := rePrice.FindString(sanitize.CleanText(text))
	if m == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || p < 0 {
		return 0, false
	}
	return p, true
}

func (c *Client) dump(doc *goquery.Document) {
	if c.opts.DumpDir == "" {
		return
	}
	html, err := doc.Html()
	if err != nil {
		slog.Warn("dump page", "err", err)
		return
	}
	if err := os.MkdirAll(c.opts.DumpDir, 0o755); err != nil {
		slog.Warn("dump page", "err", err)
		return
	}
	path := filepath.Join(c.opts.DumpDir, DumpFile)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		slog.Warn("dump page", "err", err)
		return
	}
	slog.Info("dumped page", "path", path)
}
