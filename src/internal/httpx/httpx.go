package httpx

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChromeUA is a consistent, modern desktop Chrome User-Agent for all outbound HTTP.
const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// SetBrowserHeaders makes req look like a desktop browser asking for HTML.
// An empty ua falls back to ChromeUA.
func SetBrowserHeaders(req *http.Request, ua string) {
	if req == nil {
		return
	}
	if strings.TrimSpace(ua) == "" {
		ua = ChromeUA
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// StatusError reads a short snippet of a non-200 body into an error prefixed
// with component, e.g. "fetch: http 503: Service Unavailable".
func StatusError(component string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: http %d: %s", component, resp.StatusCode, strings.TrimSpace(string(b)))
}
