package web_fetch

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/citer/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/citer/tools/web_fetch/models"
	"github.com/mohammad-safakhou/citer/tools/web_fetch/static"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultMaxBytes  = 10 << 20
	DefaultUserAgent = "Mozilla/5.0"
)

type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

// Error is returned for fetcher construction problems.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "web_fetch: " + e.Msg }

func NewWebFetcher(fetcherType FetcherType, timeout time.Duration, maxBytes int64, userAgent string) (WebFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	switch fetcherType {
	case HTTPFetcherType, "":
		return static.New(timeout, maxBytes, userAgent), nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: timeout, UserAgent: userAgent, MaxBytes: maxBytes}, nil
	default:
		return nil, &Error{"unsupported fetcher type " + string(fetcherType)}
	}
}
