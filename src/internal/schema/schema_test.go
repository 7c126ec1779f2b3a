package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		year int
		want string
	}{
		{"Hello, World!", 0, "hello-world"},
		{" Go  &  YAML ", 2020, "go-yaml-2020"},
		{"  multiple---dashes__here ", 0, "multiple-dashes-here"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in, c.year), c.in)
	}
}

func validBook() Book {
	b := NewBook()
	b.Title = "Clean Code"
	b.URL = "https://www.amazon.com/dp/0132350882"
	b.Year = 2008
	return b
}

func TestValidate(t *testing.T) {
	b := validBook()
	require.NoError(t, b.Validate())

	missingTitle := validBook()
	missingTitle.Title = " "
	assert.EqualError(t, missingTitle.Validate(), "title is required")

	missingURL := validBook()
	missingURL.URL = ""
	assert.EqualError(t, missingURL.Validate(), "url is required")

	negative := validBook()
	negative.Price = -1
	assert.Error(t, negative.Validate())

	noYear := validBook()
	noYear.Year = 0
	assert.EqualError(t, noYear.Validate(), "year is required")

	badISBN := validBook()
	badISBN.ISBN13 = Opt("97801")
	assert.Error(t, badISBN.Validate())

	noEdition := validBook()
	noEdition.Edition = Edition{}
	assert.EqualError(t, noEdition.Validate(), "edition is required")
}

func TestID(t *testing.T) {
	b := validBook()
	assert.Equal(t, "clean-code-2008", b.ID())
	b.ISBN10 = Opt("0132350882")
	assert.Equal(t, "0132350882", b.ID())
	b.ISBN13 = Opt("9780132350884")
	assert.Equal(t, "9780132350884", b.ID())
}

func TestOptDeref(t *testing.T) {
	assert.Nil(t, Opt("  "))
	require.NotNil(t, Opt(" x "))
	assert.Equal(t, "x", *Opt(" x "))
	assert.Equal(t, "", Deref(nil))
}

func TestBookJSONFieldNames(t *testing.T) {
	b := validBook()
	b.AddAuthor(NewPerson("", "Robert C.", "Martin", ""))
	b.AddAuthor(NewOrganization("The Object Mentor Group"))
	out, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	for _, k := range []string{"title", "subtitle", "price", "authors", "publisher", "edition", "year", "isbn10", "isbn13", "url"} {
		assert.Contains(t, m, k)
	}
	assert.Nil(t, m["subtitle"])
	assert.Equal(t, float64(1), m["edition"])

	authors := m["authors"].([]any)
	require.Len(t, authors, 2)
	first := authors[0].(map[string]any)
	for _, k := range []string{"lastName", "firstAndMiddleNames", "titles", "credentials", "isOrganization", "displayName", "sortableName"} {
		assert.Contains(t, first, k)
	}
	assert.Equal(t, "Martin, Robert C.", first["sortableName"])
	assert.Nil(t, first["titles"])

	var back Book
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, b, back)
}

func TestEmptyBookEncodesEmptyAuthors(t *testing.T) {
	out, err := json.Marshal(NewBook())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"authors":[]`)
}

func TestBookYAMLRoundTrip(t *testing.T) {
	b := validBook()
	b.Edition = EditionText("1")
	b.Publisher = Opt("Prentice Hall")
	b.AddAuthor(NewPerson("Dr.", "Jane A.", "Smith", "Ph.D."))
	out, err := yaml.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `edition: "1"`)
	assert.Contains(t, string(out), "subtitle: null")

	var back Book
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, b, back)
}
