// Package sheets fetches the published catalog spreadsheet as CSV.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single catalog download.
const DefaultTimeout = 30 * time.Second

// CacheBustParam is the query parameter carrying the request time, so
// intermediaries never serve a stale export.
const CacheBustParam = "_"

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Config configures a Source.
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Source downloads the CSV export of a published sheet.
type Source struct {
	client *resty.Client
	url    string
	now    func() time.Time
}

// New creates a Source for an absolute http(s) export URL.
func New(cfg Config) (*Source, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("catalog url must be absolute http(s): %q", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Source{client: client, url: cfg.URL, now: time.Now}, nil
}

// URL returns the configured export URL without the cache-busting parameter.
func (s *Source) URL() string {
	return s.url
}

// Fetch downloads the export. The caller must close the returned body.
func (s *Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetQueryParam(CacheBustParam, strconv.FormatInt(s.now().UnixMilli(), 10)).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}

	body := resp.RawBody()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		if body != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
			body.Close()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status())
	}
	if body == nil {
		return io.NopCloser(strings.NewReader("")), nil
	}
	return body, nil
}
