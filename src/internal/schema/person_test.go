package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersonComposition(t *testing.T) {
	cases := []struct {
		name                       string
		titles, given, last, creds string
		wantDisplay, wantSortable  string
	}{
		{"full", "Dr.", "Jane A.", "Smith", "Ph.D.", "Dr. Jane A. Smith, Ph.D.", "Smith, Jane A., Ph.D."},
		{"surname only", "", "", "Plato", "", "Plato", "Plato"},
		{"title and surname", "Fr.", "", "Brown", "", "Fr. Brown", "Brown"},
		{"credentials only", "", "", "King", "Jr., III", "King, Jr., III", "King, Jr., III"},
		{"two titles", "Prof., Dr.", "Hans", "Meyer", "", "Prof., Dr. Hans Meyer", "Meyer, Hans"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPerson(c.titles, c.given, c.last, c.creds)
			assert.False(t, p.IsOrganization())
			assert.Equal(t, c.last, p.LastName())
			assert.Equal(t, c.wantDisplay, p.DisplayName())
			assert.Equal(t, c.wantSortable, p.SortableName())
		})
	}
}

func TestOptionalAccessors(t *testing.T) {
	p := NewPerson("", "Jane", "Doe", "")
	given, ok := p.FirstAndMiddleNames()
	assert.True(t, ok)
	assert.Equal(t, "Jane", given)
	_, ok = p.Titles()
	assert.False(t, ok)
	_, ok = p.Credentials()
	assert.False(t, ok)
}

func TestNewOrganization(t *testing.T) {
	p := NewOrganization("The Rolling Stones")
	assert.True(t, p.IsOrganization())
	assert.Equal(t, "The Rolling Stones", p.LastName())
	assert.Equal(t, p.LastName(), p.DisplayName())
	assert.Equal(t, p.LastName(), p.SortableName())
	_, ok := p.FirstAndMiddleNames()
	assert.False(t, ok)
}

func TestPersonUnmarshalRecomputesDerivedNames(t *testing.T) {
	in := `{"lastName":"Smith","firstAndMiddleNames":"Jane","titles":null,"credentials":"M.D.","isOrganization":false,"displayName":"bogus","sortableName":"bogus"}`
	var p Person
	require.NoError(t, json.Unmarshal([]byte(in), &p))
	assert.Equal(t, "Jane Smith, M.D.", p.DisplayName())
	assert.Equal(t, "Smith, Jane, M.D.", p.SortableName())

	var empty Person
	assert.Error(t, json.Unmarshal([]byte(`{"lastName":""}`), &empty))
}
