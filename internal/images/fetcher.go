package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default fetch settings
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "exifreport/1.0"
	DefaultMaxBytes  = 50 << 20
)

// FailureKind classifies a failed download
type FailureKind int

const (
	// Network covers transport failures and timeouts
	Network FailureKind = iota + 1
	// Status is a non-2xx response
	Status
	// Unexpected is anything else: bad URL, short read, oversized body
	Unexpected
)

func (k FailureKind) String() string {
	switch k {
	case Network:
		return "network"
	case Status:
		return "status"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// FetchError is returned by Fetch for every failure
type FetchError struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case Status:
		return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
	default:
		if e.Err == nil {
			return fmt.Sprintf("%s: %s failure", e.URL, e.Kind)
		}
		return fmt.Sprintf("%s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchOptions configures a Fetcher
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// HTTPClient overrides the default client, Timeout is ignored when set
	HTTPClient *http.Client
}

// Fetcher downloads images over HTTP(S). It is safe for concurrent use.
type Fetcher struct {
	HTTPClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(opts FetchOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
		}
	}

	return &Fetcher{
		HTTPClient: client,
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
	}
}

// NormalizeURL adds https:// to a scheme-less URL and rejects anything that
// is not http or https.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}

	return u.String(), nil
}

// Fetch downloads the image at rawURL and returns its bytes
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, &FetchError{Kind: Unexpected, URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Kind: Unexpected, URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: Network, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: Status, URL: target, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > f.maxBytes {
		return nil, &FetchError{
			Kind: Unexpected,
			URL:  target,
			Err:  fmt.Errorf("image size %d exceeds limit of %d bytes", resp.ContentLength, f.maxBytes),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{Kind: Unexpected, URL: target, Err: fmt.Errorf("failed to read image data: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{
			Kind: Unexpected,
			URL:  target,
			Err:  fmt.Errorf("image exceeds limit of %d bytes", f.maxBytes),
		}
	}

	slog.Debug("Downloaded image", "url", target, "bytes", len(data), "elapsed", time.Since(start))

	return data, nil
}
