package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds only the scraper's own collectors.
var Registry = prometheus.NewRegistry()

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscrape_pages_fetched_total",
		Help: "Total number of pages successfully fetched",
	})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscrape_bytes_fetched_total",
		Help: "Total bytes downloaded",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscrape_cache_hits_total",
		Help: "Pages served from the response cache",
	})
	PagesBlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookscrape_pages_blocked_total",
		Help: "Pages that looked like a bot check instead of the expected content",
	})
	PublisherGrammar = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscrape_publisher_grammar_total",
		Help: "Publisher lines parsed, by the grammar that matched",
	}, []string{"grammar"})
	ISBNRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscrape_isbn_rejected_total",
		Help: "ISBN strings that did not normalize to 10 or 13 characters",
	}, []string{"field"})
	AuthorsParsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscrape_authors_parsed_total",
		Help: "Author names parsed, by kind (person or organization)",
	}, []string{"kind"})
	Books = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookscrape_books_total",
		Help: "Books processed, by result (ok or failed)",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(PagesFetched, BytesFetched, CacheHits, PagesBlocked,
		PublisherGrammar, ISBNRejected, AuthorsParsed, Books)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
