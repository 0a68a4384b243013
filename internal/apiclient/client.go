package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"hostelhub/internal/cache"
)

const (
	CSRFHeader         = "X-CSRF-Token"
	TabHeader          = "X-Tab-ID"
	BypassCacheHeader  = "X-Bypass-Cache"
	SkipRedirectHeader = "X-Skip-Auth-Redirect"
)

// Client is the browser-tab-side API client. It keeps an in-memory mirror
// of cacheable GET responses and guesses which of them a write made stale,
// so the UI needs no push channel for invalidation.
type Client struct {
	BaseURL string
	TabID   string
	HTTP    *http.Client

	// OnUnauthorized fires on a 401 unless the request opted out; the UI
	// hooks its redirect-to-login here.
	OnUnauthorized func()

	csrf   string
	mirror *Mirror
}

func New(baseURL, tabID string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		TabID:   tabID,
		HTTP:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		mirror:  NewMirror(),
	}
}

// SetCSRFToken installs the token received from login or hydration; it is
// echoed on every mutating request.
func (c *Client) SetCSRFToken(token string) {
	c.csrf = token
}

type requestOptions struct {
	bypassCache  bool
	skipRedirect bool
}

type Option func(*requestOptions)

// BypassCache forces a network fetch even when a live mirror entry exists.
func BypassCache() Option {
	return func(o *requestOptions) { o.bypassCache = true }
}

// SkipAuthRedirect suppresses the OnUnauthorized hook; hydration probes use
// it so a logged-out tab does not bounce to the login page.
func SkipAuthRedirect() Option {
	return func(o *requestOptions) { o.skipRedirect = true }
}

var tabSegment = regexp.MustCompile(`^/api/t/[A-Za-z0-9_-]+`)

// normalizePath strips the tab segment so mirror keys survive tab-id
// rotation.
func normalizePath(path string) string {
	return tabSegment.ReplaceAllString(path, "/api")
}

func ttlForPath(path string) (time.Duration, bool) {
	for _, route := range cache.RouteTTLs {
		if route.Pattern.MatchString(path) {
			return cache.TTLFor(route.Category), true
		}
	}
	return 0, false
}

// Get performs a GET, serving from the mirror when a live entry exists and
// no bypass was requested. Successful cacheable responses populate the
// mirror.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...Option) ([]byte, error) {
	options := collect(opts)

	normalized := normalizePath(path)
	key := mirrorKey(normalized, query)
	ttl, cacheable := ttlForPath(normalized)

	if cacheable && !options.bypassCache {
		if payload, ok := c.mirror.Get(key); ok {
			return payload, nil
		}
	}

	payload, status, err := c.do(ctx, http.MethodGet, path, query, nil, options)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(status, payload)
	}

	if cacheable && !options.bypassCache {
		c.mirror.Set(key, payload, ttl)
	}
	return payload, nil
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) ([]byte, error) {
	return c.mutate(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) ([]byte, error) {
	return c.mutate(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...Option) ([]byte, error) {
	return c.mutate(ctx, http.MethodPatch, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...Option) ([]byte, error) {
	return c.mutate(ctx, http.MethodDelete, path, nil, opts...)
}

// mutate performs a write and, on success, drops every mirror entry in the
// path's invalidation group.
func (c *Client) mutate(ctx context.Context, method, path string, body any, opts ...Option) ([]byte, error) {
	options := collect(opts)

	payload, status, err := c.do(ctx, method, path, nil, body, options)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, statusError(status, payload)
	}

	if group := cache.GroupForPath(normalizePath(path)); group != nil {
		c.mirror.InvalidateGroup(group)
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, options requestOptions) ([]byte, int, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.TabID != "" {
		req.Header.Set(TabHeader, c.TabID)
	}
	if c.csrf != "" && method != http.MethodGet {
		req.Header.Set(CSRFHeader, c.csrf)
	}
	if options.bypassCache {
		req.Header.Set(BypassCacheHeader, "1")
	}
	if options.skipRedirect {
		req.Header.Set(SkipRedirectHeader, "1")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !options.skipRedirect && c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
	return payload, resp.StatusCode, nil
}

func collect(opts []Option) requestOptions {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func mirrorKey(normalizedPath string, query url.Values) string {
	if len(query) == 0 {
		return normalizedPath
	}
	return normalizedPath + "?" + query.Encode()
}

func statusError(status int, payload []byte) error {
	return fmt.Errorf("api error %d: %s", status, strings.TrimSpace(string(payload)))
}
