package server

import (
	"encoding/json"
	"errors"
	"net/http"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/bmi"
	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/rates"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, toolbox.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, toolbox.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, toolbox.ErrUpstreamFetch):
		return http.StatusBadGateway
	case errors.Is(err, toolbox.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, calendar.ErrInvalidMonth),
		errors.Is(err, calendar.ErrInvalidYear),
		errors.Is(err, rates.ErrInvalidCurrency),
		errors.Is(err, rates.ErrInvalidAmount),
		errors.Is(err, password.ErrInvalidLength),
		errors.Is(err, bmi.ErrInvalidMeasurement),
		errors.Is(err, bmi.ErrInvalidUnit),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, rates.ErrUnknownRate):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// fail writes err with its mapped status. Server errors hide their detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.deps.Logger.Error("Request failed",
			"requestId", RequestIDFrom(r.Context()),
			"path", r.URL.Path,
			"error", err)
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}
