package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
	}{
		{name: "ok", status: http.StatusOK, body: `{"a":1}`},
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: ErrFetch, wantStatus: 404},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: ErrFetch, wantStatus: 502},
		{name: "malformed body", status: http.StatusOK, body: `{"a":`, wantErr: ErrFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept"); got != "application/json" {
					t.Errorf("Accept header = %q", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var v struct{ A int }
			err := GetJSON(context.Background(), srv.Client(), srv.URL, &v)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetJSON() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && v.A != 1 {
				t.Errorf("decoded A = %d, want 1", v.A)
			}

			var se *StatusError
			if tt.wantStatus != 0 {
				if !errors.As(err, &se) || se.StatusCode != tt.wantStatus {
					t.Errorf("StatusError = %v, want status %d", se, tt.wantStatus)
				}
			}
		})
	}
}

func TestGetBytes_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := GetBytes(context.Background(), NewClient(), url); !errors.Is(err, ErrFetch) {
		t.Errorf("GetBytes() on closed server error = %v, want ErrFetch", err)
	}
}

func TestGetBytes_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetBytes(ctx, srv.Client(), srv.URL); !errors.Is(err, ErrFetch) {
		t.Errorf("GetBytes() with canceled context error = %v, want ErrFetch", err)
	}
}
