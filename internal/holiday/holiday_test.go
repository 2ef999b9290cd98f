package holiday

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-toolbox/internal/cache"
	"github.com/alnah/go-toolbox/internal/upstream"
)

func newProvider(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/api" {
			t.Errorf("path = %q, want /api", r.URL.Path)
		}
		if r.URL.Query().Get("year") != "2024" || r.URL.Query().Get("month") != "1" {
			t.Errorf("query = %q, want year=2024&month=1", r.URL.RawQuery)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`[{"date":"2024-01-01","name":"Tahun Baru 2024 Masehi"}]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newProvider(t, &calls, http.StatusOK)

	hs, err := NewClient(srv.URL+"/", srv.Client()).Fetch(context.Background(), 2024, 1)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(hs) != 1 || hs[0].Date != "2024-01-01" || hs[0].Name != "Tahun Baru 2024 Masehi" {
		t.Errorf("Fetch() = %+v", hs)
	}
}

func TestClient_FetchNon2xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newProvider(t, &calls, http.StatusServiceUnavailable)

	_, err := NewClient(srv.URL, srv.Client()).Fetch(context.Background(), 2024, 1)
	if !errors.Is(err, upstream.ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}
}

func TestSource_CachesPerMonthFor24Hours(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newProvider(t, &calls, http.StatusOK)

	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	src := NewSource(NewClient(srv.URL, srv.Client()), 0, cache.WithClock(clock))

	for range 5 {
		if _, err := src.Holidays(context.Background(), 2024, 1); err != nil {
			t.Fatalf("Holidays() unexpected error: %v", err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}

	now = now.Add(DefaultTTL)
	if _, err := src.Holidays(context.Background(), 2024, 1); err != nil {
		t.Fatalf("Holidays() unexpected error: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("provider called %d times after expiry, want 2", n)
	}
}

func TestSource_ReturnsCopies(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newProvider(t, &calls, http.StatusOK)
	src := NewSource(NewClient(srv.URL, srv.Client()), time.Hour)

	first, _ := src.Holidays(context.Background(), 2024, 1)
	first[0].Name = "mutated"
	second, _ := src.Holidays(context.Background(), 2024, 1)
	if second[0].Name == "mutated" {
		t.Error("caller mutation leaked into the cache")
	}
}
