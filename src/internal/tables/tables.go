// Package tables holds the closed word lists the name parser strips from the
// front and back of a personal name.
package tables

import "strings"

// DefaultTitles are the honorifics recognised in front of a name, in display order.
var DefaultTitles = []string{"Mr.", "Mrs.", "Ms.", "Prof.", "Dr.", "Fr.", "Sr.", "Br."}

// DefaultCredentials are the postnominals recognised after a surname.
var DefaultCredentials = []string{
	"Ph.D.", "M.D.", "J.D.", "D.D.", "D.Phil.",
	"S.T.D.", "S.T.B.", "Jr.", "Sr.", "III", "IV",
}

// Replacement maps a spaced-dot spelling ("Ph. D.") to its compact form ("Ph.D.").
type Replacement struct {
	Spaced  string
	Compact string
}

// Tables is immutable after construction and safe for concurrent use.
type Tables struct {
	titles       []string
	credentials  []string
	titleSet     map[string]struct{}
	credSet      map[string]struct{}
	replacements []Replacement
}

var defaultTables = New(DefaultTitles, DefaultCredentials)

// Default returns the process-wide tables built from DefaultTitles and DefaultCredentials.
func Default() *Tables { return defaultTables }

// New builds tables from the given lists. Blank and duplicate entries are dropped;
// order is otherwise preserved.
func New(titles, credentials []string) *Tables {
	t := &Tables{
		titleSet: map[string]struct{}{},
		credSet:  map[string]struct{}{},
	}
	for _, s := range titles {
		s = strings.TrimSpace(s)
		if _, dup := t.titleSet[s]; s == "" || dup {
			continue
		}
		t.titleSet[s] = struct{}{}
		t.titles = append(t.titles, s)
	}
	for _, s := range credentials {
		s = strings.TrimSpace(s)
		if _, dup := t.credSet[s]; s == "" || dup {
			continue
		}
		t.credSet[s] = struct{}{}
		t.credentials = append(t.credentials, s)
		t.replacements = append(t.replacements, Replacement{Spaced: spaced(s), Compact: s})
	}
	return t
}

// Extend returns new tables with the extra entries appended to the receiver's lists.
func (t *Tables) Extend(titles, credentials []string) *Tables {
	return New(append(t.Titles(), titles...), append(t.Credentials(), credentials...))
}

// spaced renders "Ph.D." as "Ph. D.".
func spaced(cred string) string {
	return strings.TrimSpace(strings.ReplaceAll(cred, ".", ". "))
}

// IsTitle reports whether tok is an honorific title.
func (t *Tables) IsTitle(tok string) bool {
	_, ok := t.titleSet[tok]
	return ok
}

// IsCredential reports whether tok is a postnominal credential.
func (t *Tables) IsCredential(tok string) bool {
	_, ok := t.credSet[tok]
	return ok
}

// Titles returns a copy of the title list.
func (t *Tables) Titles() []string { return append([]string(nil), t.titles...) }

// Credentials returns a copy of the credential list.
func (t *Tables) Credentials() []string { return append([]string(nil), t.credentials...) }

// Replacements returns a copy of the spaced-to-compact credential spellings, in
// credential order.
func (t *Tables) Replacements() []Replacement {
	return append([]Replacement(nil), t.replacements...)
}

// Canonicalize rewrites every spaced credential spelling in s to its compact form.
func (t *Tables) Canonicalize(s string) string {
	for _, r := range t.replacements {
		if r.Spaced == r.Compact {
			continue
		}
		s = strings.ReplaceAll(s, r.Spaced, r.Compact)
	}
	return s
}
