// Package names splits a free-text author name into honorifics, given names,
// surname and postnominal credentials.
//
// Matching is positional: titles are only recognised at the front of the name
// and credentials only at the back, so "John Ph.D. Smith" keeps Ph.D. as a
// given name. A trailing token that is both a surname and a credential (Sr.)
// is always taken as a credential.
package names

import (
	"errors"
	"fmt"
	"strings"

	"bookscraper/src/internal/schema"
	"bookscraper/src/internal/tables"
)

// ErrMalformedName matches every *MalformedNameError via errors.Is.
var ErrMalformedName = errors.New("malformed name")

// MalformedNameError reports a name that has no token left for a surname once
// titles and credentials are removed.
type MalformedNameError struct {
	Raw string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("malformed name %q: no surname", e.Raw)
}

func (e *MalformedNameError) Is(target error) bool { return target == ErrMalformedName }

// organizationMarker as the first token marks a corporate author.
const organizationMarker = "The"

// Parser is safe for concurrent use; it only reads its tables.
type Parser struct {
	tables *tables.Tables
}

// NewParser returns a parser over t, or over tables.Default() when t is nil.
func NewParser(t *tables.Tables) *Parser {
	if t == nil {
		t = tables.Default()
	}
	return &Parser{tables: t}
}

var defaultParser = NewParser(nil)

// Parse parses raw with the default tables.
func Parse(raw string) (schema.Person, error) { return defaultParser.Parse(raw) }

// Parse decomposes raw into a schema.Person.
func (p *Parser) Parse(raw string) (schema.Person, error) {
	s := strings.ReplaceAll(raw, ",", "")
	s = p.tables.Canonicalize(s)
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return schema.Person{}, &MalformedNameError{Raw: raw}
	}

	if parts[0] == organizationMarker {
		return schema.NewOrganization(strings.Join(parts, " ")), nil
	}

	var titles []string
	for len(parts) > 0 && p.tables.IsTitle(parts[0]) {
		titles = append(titles, parts[0])
		parts = parts[1:]
	}

	var creds []string
	for len(parts) > 0 && p.tables.IsCredential(parts[len(parts)-1]) {
		creds = append([]string{parts[len(parts)-1]}, creds...)
		parts = parts[:len(parts)-1]
	}

	if len(parts) == 0 {
		return schema.Person{}, &MalformedNameError{Raw: raw}
	}
	last := parts[len(parts)-1]
	given := strings.Join(parts[:len(parts)-1], " ")

	return schema.NewPerson(strings.Join(titles, ", "), given, last, strings.Join(creds, ", ")), nil
}
