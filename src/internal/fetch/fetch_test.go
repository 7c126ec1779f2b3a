package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookscraper/src/internal/config"
	"bookscraper/src/internal/httpx"
)

type route struct {
	status int
	body   string
}

// fakeHTTP serves canned bodies keyed by request URI and counts requests.
type fakeHTTP struct {
	mu     sync.Mutex
	routes map[string]route
	calls  map[string]int
	ua     string
}

func newFake(routes map[string]route) *fakeHTTP {
	return &fakeHTTP{routes: routes, calls: map[string]int{}}
}

func (f *fakeHTTP) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := req.URL.RequestURI()
	f.calls[key]++
	f.ua = req.Header.Get("User-Agent")
	r, ok := f.routes[key]
	if !ok {
		r = route{status: http.StatusNotFound, body: "not found"}
	}
	return &http.Response{StatusCode: r.status, Body: io.NopCloser(strings.NewReader(r.body)), Header: make(http.Header)}, nil
}

func (f *fakeHTTP) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func newLoader(t *testing.T, opts Options, client httpx.Doer) *Loader {
	t.Helper()
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.example.com"
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1000
	}
	l, err := New(opts, client)
	require.NoError(t, err)
	return l
}

func TestURLResolution(t *testing.T) {
	l := newLoader(t, Options{}, newFake(nil))
	u, err := l.URL("/s?i=stripbooks&rh=p_66%3A9781788478120")
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.com/s?i=stripbooks&rh=p_66%3A9781788478120", u)

	u, err = l.URL("https://other.example.org/dp/1")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.org/dp/1", u)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	opts := OptionsFrom(cfg)
	assert.Equal(t, cfg.BaseURL, opts.BaseURL)
	assert.Equal(t, cfg.CacheSize, opts.CacheSize)
	assert.Equal(t, cfg.RespectRobots, opts.RespectRobots)
}

func TestGetUsesCache(t *testing.T) {
	fake := newFake(map[string]route{"/dp/1": {200, "<html>one</html>"}})
	l := newLoader(t, Options{CacheSize: 4, UserAgent: "bookscrape-test"}, fake)

	for i := 0; i < 3; i++ {
		b, err := l.Get(context.Background(), "/dp/1")
		require.NoError(t, err)
		assert.Equal(t, "<html>one</html>", string(b))
	}
	assert.Equal(t, 1, fake.count("/dp/1"))
	assert.Equal(t, "bookscrape-test", fake.ua)

	l.Forget("/dp/1")
	_, err := l.Get(context.Background(), "/dp/1")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.count("/dp/1"))
}

func TestGetWithoutCache(t *testing.T) {
	fake := newFake(map[string]route{"/dp/1": {200, "x"}})
	l := newLoader(t, Options{}, fake)
	for i := 0; i < 2; i++ {
		_, err := l.Get(context.Background(), "/dp/1")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fake.count("/dp/1"))
	assert.Equal(t, httpx.ChromeUA, fake.ua)
}

func TestGetHTTPError(t *testing.T) {
	fake := newFake(map[string]route{"/dp/1": {503, "Service Unavailable"}})
	l := newLoader(t, Options{CacheSize: 4}, fake)
	_, err := l.Get(context.Background(), "/dp/1")
	require.Error(t, err)
	assert.Equal(t, "fetch: http 503: Service Unavailable", err.Error())
}

func TestGetMaxBytes(t *testing.T) {
	fake := newFake(map[string]route{"/big": {200, strings.Repeat("a", 100)}})
	l := newLoader(t, Options{MaxBytes: 10}, fake)
	b, err := l.Get(context.Background(), "/big")
	require.NoError(t, err)
	assert.Len(t, b, 10)
}

func TestDocumentMarker(t *testing.T) {
	fake := newFake(map[string]route{
		"/dp/ok":      {200, `<html><body><span id="productTitle">Title</span></body></html>`},
		"/dp/captcha": {200, `<html><body><form action="/errors/validateCaptcha"></form></body></html>`},
	})
	l := newLoader(t, Options{CacheSize: 4}, fake)

	doc, err := l.Document(context.Background(), "/dp/ok", "#productTitle")
	require.NoError(t, err)
	assert.Equal(t, "Title", doc.Find("#productTitle").Text())

	_, err = l.Document(context.Background(), "/dp/captcha", "#productTitle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlocked))

	// blocked pages are not served from cache on the next attempt
	_, _ = l.Document(context.Background(), "/dp/captcha", "#productTitle")
	assert.Equal(t, 2, fake.count("/dp/captcha"))
}

func TestRobots(t *testing.T) {
	fake := newFake(map[string]route{
		"/robots.txt": {200, "User-agent: *\nDisallow: /gp/\n"},
		"/dp/1":       {200, "ok"},
		"/gp/offers":  {200, "offers"},
	})
	l := newLoader(t, Options{RespectRobots: true}, fake)

	_, err := l.Get(context.Background(), "/dp/1")
	require.NoError(t, err)

	_, err = l.Get(context.Background(), "/gp/offers")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDisallowed))
	assert.Equal(t, 0, fake.count("/gp/offers"))
	assert.Equal(t, 1, fake.count("/robots.txt"), "robots.txt is fetched once per host")
}

func TestRobotsMissingAllowsAll(t *testing.T) {
	fake := newFake(map[string]route{"/gp/offers": {200, "offers"}})
	l := newLoader(t, Options{RespectRobots: true}, fake)
	_, err := l.Get(context.Background(), "/gp/offers")
	require.NoError(t, err)
}

func TestGetHonorsContext(t *testing.T) {
	fake := newFake(map[string]route{"/dp/1": {200, "ok"}})
	l := newLoader(t, Options{RequestsPerSecond: 0.001}, fake)
	// first call consumes the single burst token
	_, err := l.Get(context.Background(), "/dp/1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Get(ctx, "/dp/1")
	assert.Error(t, err)
	assert.Equal(t, 1, fake.count("/dp/1"))
}
