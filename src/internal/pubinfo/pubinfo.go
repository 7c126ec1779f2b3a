// Package pubinfo parses the publisher line of a book listing, e.g.
// "Penguin Books; 2nd edition (June 1, 2001)", into publisher, edition and year.
package pubinfo

import (
	"regexp"
	"strconv"

	"bookscraper/src/internal/schema"
)

// Grammar names the pattern that produced a Result.
type Grammar int

const (
	// GrammarNone means no pattern matched and the fallbacks were used.
	GrammarNone Grammar = iota
	// GrammarEdition is "<publisher>; <n><suffix> edition (<date>, <year>)".
	GrammarEdition
	// GrammarDate is "<publisher> (<date>, <year>)".
	GrammarDate
)

func (g Grammar) String() string {
	switch g {
	case GrammarEdition:
		return "edition"
	case GrammarDate:
		return "date"
	}
	return "none"
}

// Result is always fully populated.
type Result struct {
	Publisher string
	Edition   schema.Edition
	Year      int
	Grammar   Grammar
}

var (
	reEdition = regexp.MustCompile(`(.*?); (\d*)([A-Za-z&,]*) edition *\(.*?, *(\d{4})\)`)
	reDate    = regexp.MustCompile(`(.*?) \(.*?, *(\d{4})\)`)
)

// defaultEdition is used whenever the line names no edition.
const defaultEdition = "1"

type matcher func(raw string) (Result, bool)

// matchers are tried in order; the first match wins.
var matchers = []matcher{matchEdition, matchDate}

// Parse never fails: when no pattern matches, the publisher is raw unchanged,
// the edition is "1" and the year is fallbackYear.
func Parse(raw string, fallbackYear int) Result {
	for _, m := range matchers {
		if r, ok := m(raw); ok {
			return r
		}
	}
	return Result{
		Publisher: raw,
		Edition:   schema.EditionText(defaultEdition),
		Year:      fallbackYear,
		Grammar:   GrammarNone,
	}
}

func matchEdition(raw string) (Result, bool) {
	m := reEdition.FindStringSubmatch(raw)
	if m == nil {
		return Result{}, false
	}
	year, err := strconv.Atoi(m[4])
	if err != nil {
		return Result{}, false
	}
	r := Result{Publisher: m[1], Year: year, Grammar: GrammarEdition}
	switch n, err := strconv.Atoi(m[2]); {
	case m[2] == "":
		// ordinal words ("First", "Revised") have no digits
		r.Edition = schema.EditionText(m[3])
	case err == nil:
		r.Edition = schema.EditionNumber(n)
	default:
		// too large for an int; keep the digits as written
		r.Edition = schema.EditionText(m[2] + m[3])
	}
	return r, true
}

func matchDate(raw string) (Result, bool) {
	m := reDate.FindStringSubmatch(raw)
	if m == nil {
		return Result{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Result{}, false
	}
	return Result{
		Publisher: m[1],
		Edition:   schema.EditionText(defaultEdition),
		Year:      year,
		Grammar:   GrammarDate,
	}, true
}
