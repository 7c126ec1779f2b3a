package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMembership(t *testing.T) {
	tb := Default()
	for _, s := range []string{"Mr.", "Dr.", "Prof.", "Sr."} {
		assert.True(t, tb.IsTitle(s), s)
	}
	for _, s := range []string{"Ph.D.", "D.Phil.", "Jr.", "Sr.", "III", "IV"} {
		assert.True(t, tb.IsCredential(s), s)
	}
	assert.False(t, tb.IsTitle("Smith"))
	assert.False(t, tb.IsCredential("ph.d."))
}

func TestReplacementsSpacing(t *testing.T) {
	got := map[string]string{}
	for _, r := range Default().Replacements() {
		got[r.Compact] = r.Spaced
	}
	assert.Equal(t, "Ph. D.", got["Ph.D."])
	assert.Equal(t, "D. Phil.", got["D.Phil."])
	assert.Equal(t, "S. T. D.", got["S.T.D."])
	assert.Equal(t, "Jr.", got["Jr."])
	assert.Equal(t, "III", got["III"])
}

func TestCanonicalize(t *testing.T) {
	tb := Default()
	assert.Equal(t, "Jane Smith Ph.D.", tb.Canonicalize("Jane Smith Ph. D."))
	assert.Equal(t, "John Roe S.T.D.", tb.Canonicalize("John Roe S. T. D."))
	assert.Equal(t, "Karl Barth D.Phil.", tb.Canonicalize("Karl Barth D. Phil."))
	assert.Equal(t, "no change", tb.Canonicalize("no change"))
}

func TestListsAreCopies(t *testing.T) {
	tb := Default()
	titles := tb.Titles()
	require.NotEmpty(t, titles)
	titles[0] = "mutated"
	assert.Equal(t, "Mr.", tb.Titles()[0])
}

func TestNewAndExtend(t *testing.T) {
	tb := New([]string{"Dr.", " ", "Dr.", "Rev."}, []string{"Esq."})
	assert.Equal(t, []string{"Dr.", "Rev."}, tb.Titles())
	assert.Equal(t, []string{"Esq."}, tb.Credentials())

	ext := Default().Extend([]string{"Rev."}, []string{"O.S.B."})
	assert.True(t, ext.IsTitle("Rev."))
	assert.True(t, ext.IsCredential("O.S.B."))
	assert.False(t, Default().IsTitle("Rev."))
	assert.Equal(t, "Brother Tom O.S.B.", ext.Canonicalize("Brother Tom O. S. B."))
}
