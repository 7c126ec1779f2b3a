// Package fetch loads pages from the bookstore site: throttled, optionally
// robots.txt-aware, with a small in-memory response cache.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"bookscraper/src/internal/config"
	"bookscraper/src/internal/httpx"
	"bookscraper/src/internal/metrics"
)

var (
	// ErrBlocked means the page came back without the element that proves it is
	// the page asked for, which in practice is a captcha or bot check.
	ErrBlocked = errors.New("fetch: page blocked by bot check")
	// ErrDisallowed means robots.txt forbids the URL for our user agent.
	ErrDisallowed = errors.New("fetch: disallowed by robots.txt")
)

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 4 << 20

type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	RespectRobots     bool
	CacheSize         int
	MaxBytes          int64
}

// OptionsFrom copies the fetch settings out of cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		BaseURL:           cfg.BaseURL,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RespectRobots:     cfg.RespectRobots,
		CacheSize:         cfg.CacheSize,
	}
}

// Loader is safe for concurrent use.
type Loader struct {
	base          *url.URL
	client        httpx.Doer
	ua            string
	limiter       *rate.Limiter
	cache         *lru.Cache[string, []byte]
	respectRobots bool
	maxBytes      int64

	robotsMu sync.Mutex
	robots   map[string]*robotstxt.RobotsData
}

// New returns a Loader. A nil client means a plain http.Client with opts.Timeout.
func New(opts Options, client httpx.Doer) (*Loader, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("fetch: invalid base url %q", opts.BaseURL)
	}
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	l := &Loader{
		base:          base,
		client:        client,
		ua:            opts.UserAgent,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		respectRobots: opts.RespectRobots,
		maxBytes:      opts.MaxBytes,
		robots:        map[string]*robotstxt.RobotsData{},
	}
	if l.maxBytes <= 0 {
		l.maxBytes = DefaultMaxBytes
	}
	if opts.CacheSize > 0 {
		l.cache, err = lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("fetch: cache: %w", err)
		}
	}
	return l, nil
}

// URL resolves a site-relative reference ("/dp/123", "/s?k=x") against the
// base URL. Absolute references are returned as-is.
func (l *Loader) URL(ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("fetch: invalid url %q: %w", ref, err)
	}
	return l.base.ResolveReference(r).String(), nil
}

// Get returns the body of ref, from the cache when possible.
func (l *Loader) Get(ctx context.Context, ref string) ([]byte, error) {
	u, err := l.URL(ref)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		if b, ok := l.cache.Get(u); ok {
			metrics.CacheHits.Inc()
			slog.Debug("cache hit", "url", u)
			return b, nil
		}
	}
	if l.respectRobots {
		ok, err := l.allowed(ctx, u)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, u)
		}
	}
	b, err := l.download(ctx, u)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Add(u, b)
	}
	return b, nil
}

// Document loads ref and parses it. marker is a selector that must match on a
// genuine page; when it matches nothing the page is dropped from the cache and
// ErrBlocked is returned.
func (l *Loader) Document(ctx context.Context, ref, marker string) (*goquery.Document, error) {
	b, err := l.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse html: %w", err)
	}
	if marker != "" && doc.Find(marker).Length() == 0 {
		l.Forget(ref)
		metrics.PagesBlocked.Inc()
		return nil, fmt.Errorf("%w: %s has no %s", ErrBlocked, ref, marker)
	}
	return doc, nil
}

// Forget drops ref from the cache.
func (l *Loader) Forget(ref string) {
	if l.cache == nil {
		return
	}
	if u, err := l.URL(ref); err == nil {
		l.cache.Remove(u)
	}
}

func (l *Loader) download(ctx context.Context, u string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpx.SetBrowserHeaders(req, l.ua)
	slog.Info("loading page", "url", u)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, httpx.StatusError("fetch", resp)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", u, err)
	}
	metrics.PagesFetched.Inc()
	metrics.BytesFetched.Add(float64(len(b)))
	return b, nil
}

// allowed consults robots.txt for u's host, fetching it once per host. A
// missing or unreadable robots.txt allows everything.
func (l *Loader) allowed(ctx context.Context, raw string) (bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return false, err
	}
	l.robotsMu.Lock()
	data, seen := l.robots[u.Host]
	l.robotsMu.Unlock()
	if !seen {
		data = l.fetchRobots(ctx, u)
		l.robotsMu.Lock()
		l.robots[u.Host] = data
		l.robotsMu.Unlock()
	}
	if data == nil {
		return true, nil
	}
	ua := l.ua
	if ua == "" {
		ua = httpx.ChromeUA
	}
	return data.FindGroup(ua).Test(u.RequestURI()), nil
}

func (l *Loader) fetchRobots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	if err := l.limiter.Wait(ctx); err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	httpx.SetBrowserHeaders(req, l.ua)
	resp, err := l.client.Do(req)
	if err != nil {
		slog.Warn("robots.txt unavailable", "url", robotsURL, "err", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil
	}
	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		slog.Warn("robots.txt unreadable", "url", robotsURL, "err", err)
		return nil
	}
	return robots
}
