// Package rates fetches exchange rates keyed by base currency and proxies
// them over HTTP.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-toolbox/internal/cache"
	"github.com/alnah/go-toolbox/internal/upstream"
)

// Defaults for the public rates provider.
const (
	DefaultBaseURL = "https://free.ratesdb.com"
	DefaultBase    = "USD"
	DefaultTTL     = 5 * time.Minute
)

// Sentinel errors for rate lookups.
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrUnknownRate     = errors.New("no rate for currency")
	ErrInvalidAmount   = errors.New("amount must be a finite number")
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is a supported currency with a display name.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Currencies lists the currencies offered by the converter.
var Currencies = []Currency{
	{"USD", "US Dollar"},
	{"EUR", "Euro"},
	{"GBP", "British Pound"},
	{"JPY", "Japanese Yen"},
	{"AUD", "Australian Dollar"},
	{"CAD", "Canadian Dollar"},
	{"CHF", "Swiss Franc"},
	{"CNY", "Chinese Yuan"},
	{"SEK", "Swedish Krona"},
	{"NZD", "New Zealand Dollar"},
	{"IDR", "Indonesian Rupiah"},
}

// NormalizeCode upper-cases and validates a three-letter code.
// An empty code yields DefaultBase.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultBase, nil
	}
	if !currencyCode.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return code, nil
}

// Table is the upstream response: { data: { rates: { CODE: number } } }.
// Raw keeps the exact bytes so the proxy can pass them through unchanged.
type Table struct {
	Data struct {
		Rates map[string]float64 `json:"rates"`
	} `json:"data"`
	Raw json.RawMessage `json:"-"`
}

// Rate returns the rate from the table's base to code.
func (t *Table) Rate(code string) (float64, error) {
	r, ok := t.Data.Rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRate, code)
	}
	return r, nil
}

// Client queries GET {base}/v1/rates?from=CODE.
type Client struct {
	baseURL string
	http    upstream.Doer
}

// NewClient builds a client; empty baseURL and nil doer select defaults.
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
func (c *Client) Fetch(ctx context.Context, from string) (*Table, error) {
	endpoint := c.baseURL + "/v1/rates?" + url.Values{"from": {from}}.Encode()

	body, err := upstream.GetBytes(ctx, c.http, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching rates for %s: %w", from, err)
	}
	t := &Table{Raw: body}
	if err := json.Unmarshal(body, t); err != nil {
		return nil, fmt.Errorf("%w: decoding rates for %s: %v", upstream.ErrFetch, from, err)
	}
	return t, nil
}

// Service serves cached rate tables and conversions.
type Service struct {
	cache *cache.TTL[string, *Table]
}

// NewService wraps client with a cache of the given ttl (DefaultTTL if <= 0).
func NewService(client *Client, ttl time.Duration, opts ...cache.Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{cache: cache.New(ttl, client.Fetch, opts...)}
}

// Table returns the rate table for a base currency.
func (s *Service) Table(ctx context.Context, from string) (*Table, error) {
	code, err := NormalizeCode(from)
	if err != nil {
		return nil, err
	}
	return s.cache.Get(ctx, code)
}

// Conversion is the result of converting an amount between currencies.
type Conversion struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Rate   float64 `json:"rate"`
	Result float64 `json:"result"`
}

// Convert converts amount from one currency to another.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (Conversion, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Conversion{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	toCode, err := NormalizeCode(to)
	if err != nil {
		return Conversion{}, err
	}
	t, err := s.Table(ctx, from)
	if err != nil {
		return Conversion{}, err
	}
	fromCode, _ := NormalizeCode(from)

	rate := 1.0
	if toCode != fromCode {
		if rate, err = t.Rate(toCode); err != nil {
			return Conversion{}, err
		}
	}
	return Conversion{
		Amount: amount,
		From:   fromCode,
		To:     toCode,
		Rate:   rate,
		Result: amount * rate,
	}, nil
}
