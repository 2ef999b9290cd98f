package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/bmi"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/rates"
)

// multipartOverhead allows for form boundaries and the direction field on
// top of the file itself.
const multipartOverhead = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"extensions": toolbox.SupportedExtensions()})
}

// handleConvert reads multipart "file" and optional "direction" and responds
// with the PDF as an attachment.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.deps.MaxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, err)
			return
		}
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	dir, err := toolbox.ParseDirection(r.FormValue("direction"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: missing file field", errBadRequest))
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, s.deps.MaxUpload+1))
	if err != nil {
		s.fail(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}
	if int64(len(content)) > s.deps.MaxUpload {
		s.fail(w, r, &http.MaxBytesError{Limit: s.deps.MaxUpload})
		return
	}

	doc, err := s.deps.Converter.Convert(r.Context(), toolbox.ConvertibleFile{Name: header.Filename, Content: content}, dir)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(doc.Size()))
	w.Header().Set("X-Page-Count", strconv.Itoa(doc.Pages))
	w.WriteHeader(http.StatusOK)
	_, _ = doc.WriteTo(w)
}

// monthResponse adds the holiday failure, if any, to a month view.
type monthResponse struct {
	*toolbox.MonthView
	HolidayError string `json:"holidayError,omitempty"`
}

func newMonthResponse(v *toolbox.MonthView) monthResponse {
	resp := monthResponse{MonthView: v}
	if v.HolidayErr != nil {
		resp.HolidayError = v.HolidayErr.Error()
	}
	return resp
}

// handleMonth serves ?year=&month=, defaulting to the current month.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Now()
	q := r.URL.Query()
	year, err := intParam(q.Get("year"), now.Year())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	month, err := intParam(q.Get("month"), int(now.Month()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.deps.Calendar.Month(r.Context(), year, month)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view.HolidayErr != nil {
		s.deps.Logger.Warn("Holidays unavailable",
			"requestId", RequestIDFrom(r.Context()),
			"error", view.HolidayErr)
	}
	writeJSON(w, http.StatusOK, newMonthResponse(view))
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r.PathValue("year"), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views, err := s.deps.Calendar.Year(r.Context(), year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]monthResponse, len(views))
	for i, v := range views {
		out[i] = newMonthResponse(v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": out})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]rates.Currency{"currencies": rates.Currencies})
}

// handleConvertCurrency serves ?amount=&from=&to= from the cached table.
func (s *Server) handleConvertCurrency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := floatParam(q.Get("amount"), 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	conv, err := s.deps.Rates.Convert(r.Context(), amount, q.Get("from"), q.Get("to"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type passwordResponse struct {
	Password string            `json:"password"`
	Strength password.Strength `json:"strength"`
	Options  password.Options  `json:"options"`
}

// handlePassword serves ?length=&upper=&lower=&digits=&symbols=.
func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.deps.PasswordDefaults

	var err error
	if opts.Length, err = intParam(q.Get("length"), opts.Length); err != nil {
		s.fail(w, r, err)
		return
	}
	for name, dst := range map[string]*bool{
		"upper":   &opts.Upper,
		"lower":   &opts.Lower,
		"digits":  &opts.Digits,
		"symbols": &opts.Symbols,
	} {
		if *dst, err = boolParam(q.Get(name), *dst); err != nil {
			s.fail(w, r, fmt.Errorf("%s: %w", name, err))
			return
		}
	}

	pw, err := s.deps.Passwords.Generate(opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, passwordResponse{
		Password: pw,
		Strength: password.Rate(pw, opts),
		Options:  opts,
	})
}

// handleBMI serves ?weight=&height=&unit=.
func (s *Server) handleBMI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit, err := bmi.ParseUnit(q.Get("unit"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weight, err := floatParam(q.Get("weight"), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := floatParam(q.Get("height"), 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := bmi.Calculate(weight, height, unit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res.Value = res.Rounded()
	writeJSON(w, http.StatusOK, res)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errBadRequest, v)
	}
	return n, nil
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", errBadRequest, v)
	}
	return f, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", errBadRequest, v)
	}
	return b, nil
}
