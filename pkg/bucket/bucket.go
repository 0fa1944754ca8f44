package bucket

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// TransportError reports a failed listing or download request, either at
// the network level (Err set) or because the server answered with an
// unexpected status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed: unexpected status code: %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client navigates the key hierarchy of a public S3 bucket without
// downloading object bodies.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithLogger overrides slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.Logger = l
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid bucket url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid bucket url %q: scheme and host are required", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		BaseURL:    u,
		HTTPClient: http.DefaultClient,
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List issues a single ListObjects request. An empty marker starts at the
// beginning of the prefix.
func (c *Client) List(ctx context.Context, prefix, delimiter, marker string) (*ListBucketResult, error) {
	query := url.Values{}
	query.Set("prefix", prefix)
	query.Set("delimiter", delimiter)
	if marker != "" {
		query.Set("marker", marker)
	}

	reqURL := *c.BaseURL
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: reqURL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{URL: reqURL.String(), StatusCode: resp.StatusCode}
	}

	var result ListBucketResult
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding listing for prefix %q: %w", prefix, err)
	}

	c.Logger.Debug("Listed bucket",
		"prefix", prefix,
		"marker", marker,
		"contents", len(result.Contents),
		"prefixes", len(result.CommonPrefixes),
		"truncated", result.IsTruncated)

	return &result, nil
}

// Walk lists every page under prefix, following continuation markers while
// the server reports a truncated result. Pages are requested lazily.
func (c *Client) Walk(ctx context.Context, prefix, delimiter string) iter.Seq2[*ListBucketResult, error] {
	return func(yield func(*ListBucketResult, error) bool) {
		marker := ""
		for {
			page, err := c.List(ctx, prefix, delimiter, marker)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) || !page.IsTruncated {
				return
			}

			next := nextMarker(page)
			if next == "" || next <= marker {
				yield(nil, fmt.Errorf("listing for prefix %q is truncated but did not advance past marker %q", prefix, marker))
				return
			}
			marker = next
		}
	}
}

// nextMarker returns the marker for the page following p. S3 only sends
// NextMarker when a delimiter is used; otherwise the last key is the marker.
func nextMarker(p *ListBucketResult) string {
	if p.NextMarker != "" {
		return p.NextMarker
	}

	last := ""
	if n := len(p.Contents); n > 0 {
		last = p.Contents[n-1].Key
	}
	if n := len(p.CommonPrefixes); n > 0 && p.CommonPrefixes[n-1].Prefix > last {
		last = p.CommonPrefixes[n-1].Prefix
	}
	return last
}

// ResolveURL returns the absolute URL of key inside the bucket.
func (c *Client) ResolveURL(key string) string {
	return c.BaseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(key, "/")}).String()
}

// DirName returns the last directory of a common prefix,
// e.g. "pyportal" for "bin/pyportal/".
func DirName(prefix string) string {
	return path.Base(strings.TrimSuffix(prefix, "/"))
}
