package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExposed(t *testing.T) {
	PublisherGrammar.WithLabelValues("edition").Inc()
	Books.WithLabelValues("ok").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bookscrape_publisher_grammar_total{grammar="edition"}`)
	assert.Contains(t, string(body), `bookscrape_books_total{result="ok"}`)
}
