package rates

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-toolbox/internal/upstream"
)

const sampleBody = `{"data":{"rates":{"EUR":0.9,"IDR":15500.5,"USD":1}}}`

func newUpstream(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/rates" {
			t.Errorf("path = %q, want /v1/rates", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(sampleBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"", "USD", nil},
		{"eur", "EUR", nil},
		{" idr ", "IDR", nil},
		{"EURO", "", ErrInvalidCurrency},
		{"U$D", "", ErrInvalidCurrency},
	}
	for _, tt := range tests {
		got, err := NormalizeCode(tt.in)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestService_Convert(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newUpstream(t, &calls, http.StatusOK)
	svc := NewService(NewClient(srv.URL, srv.Client()), 0)

	got, err := svc.Convert(context.Background(), 100, "usd", "idr")
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	if got.From != "USD" || got.To != "IDR" || math.Abs(got.Result-1550050) > 1e-6 {
		t.Errorf("Convert() = %+v", got)
	}

	if _, err := svc.Convert(context.Background(), 1, "USD", "XYZ"); !errors.Is(err, ErrUnknownRate) {
		t.Errorf("Convert(XYZ) error = %v, want ErrUnknownRate", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream called %d times, want 1 (cached)", n)
	}
}

func TestService_SameCurrencyIsIdentity(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newUpstream(t, &calls, http.StatusOK)
	svc := NewService(NewClient(srv.URL, srv.Client()), 0)

	got, err := svc.Convert(context.Background(), 42, "EUR", "eur")
	if err != nil || got.Rate != 1 || got.Result != 42 {
		t.Errorf("Convert(EUR->EUR) = %+v, %v", got, err)
	}
}

func TestService_RejectsNonFiniteAmount(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newUpstream(t, &calls, http.StatusOK)
	svc := NewService(NewClient(srv.URL, srv.Client()), 0)

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := svc.Convert(context.Background(), amount, "USD", "EUR"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Convert(%v) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("upstream called %d times for invalid amounts, want 0", n)
	}
}

func TestProxyHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		query      string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{name: "relays body", status: http.StatusOK, query: "?from=EUR", wantStatus: 200, wantBody: sampleBody},
		{name: "defaults to USD", status: http.StatusOK, query: "", wantStatus: 200, wantBody: sampleBody},
		{name: "upstream non-2xx", status: http.StatusBadGateway, query: "?from=USD", wantStatus: 500, wantError: "Failed to fetch rates"},
		{name: "bad code", status: http.StatusOK, query: "?from=dollars", wantStatus: 400, wantError: "invalid currency code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := newUpstream(t, &calls, tt.status)
			h := ProxyHandler(NewClient(srv.URL, srv.Client()), discardLogger())

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/currency"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantError != "" {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("error body not JSON: %v", err)
				}
				if got := body["error"]; got == "" || !strings.Contains(strings.ToLower(got), strings.ToLower(tt.wantError)) {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
		})
	}
}

func TestProxyHandler_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	rec := httptest.NewRecorder()
	ProxyHandler(NewClient(base, upstream.NewClient()), discardLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/currency", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q, want Internal server error", body["error"])
	}
}
