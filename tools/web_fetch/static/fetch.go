// Package static fetches pages with a plain HTTP GET and parses them with goquery.
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/citer/tools/web_fetch/models"
)

const maxRedirects = 5

type Fetch struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	client    *http.Client
}

func New(timeout time.Duration, maxBytes int64, userAgent string) *Fetch {
	return &Fetch{
		Timeout:   timeout,
		MaxBytes:  maxBytes,
		UserAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
	}
}

func (f *Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Result{URL: url}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	client := f.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Result{URL: url}, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	var body io.Reader = resp.Body
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	res, err := models.ParseHTML(url, raw, resp.StatusCode)
	res.RenderMS = int(time.Since(t0) / time.Millisecond)
	if err != nil {
		return res, fmt.Errorf("parse html: %w", err)
	}
	return res, nil
}
