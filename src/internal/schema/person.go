package schema

import (
	"encoding/json"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Person is an author as parsed from a page: either a personal name broken into
// titles, given names, surname and credentials, or an organization. Values are
// immutable; the display and sortable forms are derived at construction.
type Person struct {
	organization bool
	lastName     string
	given        string
	titles       string
	credentials  string
	display      string
	sortable     string
}

// NewPerson builds a personal name. titles and credentials are the already
// comma-joined lists; an empty string means the part is absent.
func NewPerson(titles, given, last, credentials string) Person {
	p := Person{
		lastName:    last,
		given:       given,
		titles:      titles,
		credentials: credentials,
	}

	sortable := []string{last}
	var display []string
	if titles != "" {
		display = append(display, titles)
	}
	if given != "" {
		sortable = append(sortable, given)
		display = append(display, given)
	}
	if credentials != "" {
		display = append(display, last+",", credentials)
		sortable = append(sortable, credentials)
	} else {
		display = append(display, last)
	}
	p.sortable = strings.Join(sortable, ", ")
	p.display = strings.Join(display, " ")
	return p
}

// NewOrganization builds a corporate author whose name is used verbatim.
func NewOrganization(name string) Person {
	return Person{
		organization: true,
		lastName:     name,
		display:      name,
		sortable:     name,
	}
}

func (p Person) IsOrganization() bool { return p.organization }
func (p Person) LastName() string     { return p.lastName }
func (p Person) DisplayName() string  { return p.display }
func (p Person) SortableName() string { return p.sortable }

// FirstAndMiddleNames returns the given names, if any.
func (p Person) FirstAndMiddleNames() (string, bool) { return p.given, p.given != "" }

// Titles returns the comma-joined honorifics, if any.
func (p Person) Titles() (string, bool) { return p.titles, p.titles != "" }

// Credentials returns the comma-joined postnominals, if any.
func (p Person) Credentials() (string, bool) { return p.credentials, p.credentials != "" }

type personWire struct {
	LastName            string  `json:"lastName" yaml:"lastName"`
	FirstAndMiddleNames *string `json:"firstAndMiddleNames" yaml:"firstAndMiddleNames"`
	Titles              *string `json:"titles" yaml:"titles"`
	Credentials         *string `json:"credentials" yaml:"credentials"`
	IsOrganization      bool    `json:"isOrganization" yaml:"isOrganization"`
	DisplayName         string  `json:"displayName" yaml:"displayName"`
	SortableName        string  `json:"sortableName" yaml:"sortableName"`
}

func (p Person) wire() personWire {
	return personWire{
		LastName:            p.lastName,
		FirstAndMiddleNames: Opt(p.given),
		Titles:              Opt(p.titles),
		Credentials:         Opt(p.credentials),
		IsOrganization:      p.organization,
		DisplayName:         p.display,
		SortableName:        p.sortable,
	}
}

func (w personWire) person() (Person, error) {
	if strings.TrimSpace(w.LastName) == "" {
		return Person{}, errors.New("person: lastName is required")
	}
	if w.IsOrganization {
		return NewOrganization(w.LastName), nil
	}
	return NewPerson(Deref(w.Titles), Deref(w.FirstAndMiddleNames), w.LastName, Deref(w.Credentials)), nil
}

func (p Person) MarshalJSON() ([]byte, error) { return json.Marshal(p.wire()) }

// UnmarshalJSON restores a person; the derived names are recomputed rather than
// trusted from the input.
func (p *Person) UnmarshalJSON(b []byte) error {
	var w personWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out, err := w.person()
	if err != nil {
		return err
	}
	*p = out
	return nil
}

func (p Person) MarshalYAML() (any, error) { return p.wire(), nil }

func (p *Person) UnmarshalYAML(value *yaml.Node) error {
	var w personWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	out, err := w.person()
	if err != nil {
		return err
	}
	*p = out
	return nil
}
