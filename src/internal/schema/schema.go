package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Book is the record assembled from one product page. It is filled in field by
// field by the extractor and validated before it is encoded or stored.
type Book struct {
	Title     string   `yaml:"title" json:"title"`
	Subtitle  *string  `yaml:"subtitle" json:"subtitle"`
	Price     float64  `yaml:"price" json:"price"`
	Authors   []Person `yaml:"authors" json:"authors"`
	Publisher *string  `yaml:"publisher" json:"publisher"`
	Edition   Edition  `yaml:"edition" json:"edition"`
	Year      int      `yaml:"year" json:"year"`
	ISBN10    *string  `yaml:"isbn10" json:"isbn10"`
	ISBN13    *string  `yaml:"isbn13" json:"isbn13"`
	URL       string   `yaml:"url" json:"url"`
}

// NewBook returns an empty record with the defaults every page starts from.
func NewBook() Book {
	return Book{
		Authors: []Person{},
		Edition: EditionNumber(1),
	}
}

// AddAuthor appends p; authors keep the order they were found on the page.
func (b *Book) AddAuthor(p Person) {
	b.Authors = append(b.Authors, p)
}

// Validate reports the first required field that is missing or out of range.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(b.URL) == "" {
		return errors.New("url is required")
	}
	if b.Price < 0 {
		return fmt.Errorf("price must not be negative: %v", b.Price)
	}
	if b.Year <= 0 {
		return errors.New("year is required")
	}
	if b.Edition.IsZero() {
		return errors.New("edition is required")
	}
	if b.ISBN10 != nil && len(*b.ISBN10) != 10 {
		return fmt.Errorf("isbn10 must have 10 characters: %q", *b.ISBN10)
	}
	if b.ISBN13 != nil && len(*b.ISBN13) != 13 {
		return fmt.Errorf("isbn13 must have 13 characters: %q", *b.ISBN13)
	}
	return nil
}

// ID returns a stable key for storage: the ISBN-13, else the ISBN-10, else a
// slug of the title and year.
func (b *Book) ID() string {
	if s := Deref(b.ISBN13); s != "" {
		return s
	}
	if s := Deref(b.ISBN10); s != "" {
		return s
	}
	return Slugify(b.Title, b.Year)
}

// Opt returns nil for a blank string and a pointer to the trimmed value otherwise.
func Opt(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates an id-friendly slug from title and year (omitted when 0).
func Slugify(title string, year int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if year > 0 {
		return fmt.Sprintf("%s-%d", t, year)
	}
	return t
}
