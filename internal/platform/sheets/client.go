// Package sheets fetches the published CSV exports that back the portal.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrConnectivity wraps any transport error or non-success status from a
// source fetch. A single failed source aborts the whole cycle; there is no
// partial-success mode.
var ErrConnectivity = errors.New("sheet fetch failed")

// Sources holds the six CSV export URLs, one per logical sheet.
type Sources struct {
	Admin         string
	CurrentSalary string
	ArchiveSalary string
	Bonuses       string
	Dispatches    string
	ExtraHours    string
}

// Documents holds the raw CSV text of every source from one fetch cycle.
type Documents struct {
	Admin         string
	CurrentSalary string
	ArchiveSalary string
	Bonuses       string
	Dispatches    string
	ExtraHours    string
}

// Client fetches all sources concurrently. Requests are spaced by a rate
// limiter so polling every few seconds does not hammer the host.
type Client struct {
	httpClient *http.Client
	sources    Sources
	limiter    *rate.Limiter
}

// New builds a client. fetchDelay is the minimum spacing between individual
// requests; zero disables the limiter.
func New(sources Sources, timeout, fetchDelay time.Duration) *Client {
	limit := rate.Inf
	if fetchDelay > 0 {
		limit = rate.Every(fetchDelay)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		sources:    sources,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// FetchAll issues the six fetches concurrently and waits for all of them.
// Every fetch must succeed; the first failure cancels the rest and is
// returned wrapped in ErrConnectivity.
func (c *Client) FetchAll(ctx context.Context) (Documents, error) {
	var docs Documents

	targets := []struct {
		name string
		url  string
		out  *string
	}{
		{"admin", c.sources.Admin, &docs.Admin},
		{"current_salary", c.sources.CurrentSalary, &docs.CurrentSalary},
		{"archive_salary", c.sources.ArchiveSalary, &docs.ArchiveSalary},
		{"bonuses", c.sources.Bonuses, &docs.Bonuses},
		{"dispatches", c.sources.Dispatches, &docs.Dispatches},
		{"extra_hours", c.sources.ExtraHours, &docs.ExtraHours},
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		group.Go(func() error {
			text, err := c.fetch(ctx, target.url)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrConnectivity, target.name, err)
			}
			*target.out = text
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Documents{}, err
	}
	return docs, nil
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, cacheBust(url), nil)
	if err != nil {
		return "", err
	}
	// Bypass any intermediary cache in addition to the _t query parameter.
	request.Header.Set("Cache-Control", "no-store")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// cacheBust appends a millisecond timestamp so every poll gets fresh data
// even through caching proxies.
func cacheBust(url string) string {
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	return url + separator + "_t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
