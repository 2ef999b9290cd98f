package rates

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alnah/go-toolbox/internal/upstream"
)

// Fetcher returns a rate table for a base currency.
type Fetcher interface {
	Fetch(ctx context.Context, from string) (*Table, error)
}

// ProxyHandler serves GET ?from=CODE (default USD) by relaying the upstream
// body unchanged. Upstream failures answer 500 with {"error": "..."}.
// The proxy never caches: each request reaches the upstream.
func ProxyHandler(f Fetcher, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, err := NormalizeCode(r.URL.Query().Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		t, err := f.Fetch(r.Context(), from)
		if err != nil {
			logger.Error("Rates upstream failed", "from", from, "error", err)
			msg := "Internal server error"
			var se *upstream.StatusError
			if errors.As(err, &se) {
				msg = "Failed to fetch rates"
			}
			writeError(w, http.StatusInternalServerError, msg)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(t.Raw)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
