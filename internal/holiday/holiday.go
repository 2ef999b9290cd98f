// Package holiday fetches public holidays per (year, month) and keeps them
// for a staleness window so repeated renders do not hit the network.
package holiday

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-toolbox/internal/cache"
	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/upstream"
)

// Defaults for the public Indonesian holiday API.
const (
	DefaultBaseURL = "https://libur.deno.dev"
	DefaultTTL     = 24 * time.Hour
)

// Key identifies one month of holidays.
type Key struct {
	Year  int
	Month int
}

// Client queries a holiday provider: GET {base}/api?year=Y&month=M returning
// a JSON array of {date, name}.
type Client struct {
	baseURL string
	http    upstream.Doer
}

// NewClient builds a client; an empty baseURL selects DefaultBaseURL and a
// nil doer selects an http.Client with upstream.DefaultTimeout.
func NewClient(baseURL string, doer upstream.Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = upstream.NewClient()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: doer}
}

// Fetch always issues a request. Failures wrap upstream.ErrFetch.
func (c *Client) Fetch(ctx context.Context, year, month int) ([]calendar.Holiday, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	endpoint := c.baseURL + "/api?" + q.Encode()

	var hs []calendar.Holiday
	if err := upstream.GetJSON(ctx, c.http, endpoint, &hs); err != nil {
		return nil, fmt.Errorf("fetching holidays for %04d-%02d: %w", year, month, err)
	}
	return hs, nil
}

// Source is a cached holiday provider.
type Source struct {
	cache *cache.TTL[Key, []calendar.Holiday]
}

// NewSource wraps client with a cache of the given ttl (DefaultTTL if <= 0).
func NewSource(client *Client, ttl time.Duration, opts ...cache.Option) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	load := func(ctx context.Context, k Key) ([]calendar.Holiday, error) {
		return client.Fetch(ctx, k.Year, k.Month)
	}
	return &Source{cache: cache.New(ttl, load, opts...)}
}

// Holidays returns holidays for the month, from cache when fresh.
// The returned slice is a copy the caller may modify.
func (s *Source) Holidays(ctx context.Context, year, month int) ([]calendar.Holiday, error) {
	hs, err := s.cache.Get(ctx, Key{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	out := make([]calendar.Holiday, len(hs))
	copy(out, hs)
	return out, nil
}
