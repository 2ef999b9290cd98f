// Package dateutil formats dates with user-friendly tokens and localised
// month and weekday names.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date formatting.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrUnknownLocale     = errors.New("unknown locale")
	ErrInvalidISODate    = errors.New("invalid ISO date")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultLocale is used when no locale is specified.
const DefaultLocale = "en"

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":   "YYYY-MM-DD",
	"long":  "D MMMM YYYY",
	"month": "MMMM YYYY",
}

// names holds the localised calendar vocabulary.
type names struct {
	months       [12]string
	weekdays     [7]string // Sunday first
	weekdayShort [7]string
}

var locales = map[string]names{
	"en": {
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		weekdays:     [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		weekdayShort: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	},
	"id": {
		months: [12]string{
			"Januari", "Februari", "Maret", "April", "Mei", "Juni",
			"Juli", "Agustus", "September", "Oktober", "November", "Desember",
		},
		weekdays:     [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"},
		weekdayShort: [7]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"},
	},
}

// Locales returns the supported locale codes.
func Locales() []string {
	return []string{"en", "id"}
}

// ValidateLocale reports whether locale is supported. Empty means DefaultLocale.
func ValidateLocale(locale string) error {
	_, err := lookup(locale)
	return err
}

// token kinds, ordered by length descending for greedy matching.
var dateTokens = []string{"YYYY", "MMMM", "dddd", "MMM", "ddd", "YY", "MM", "DD", "M", "D"}

func lookup(locale string) (names, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	n, ok := locales[strings.ToLower(locale)]
	if !ok {
		return names{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLocale, locale, strings.Join(Locales(), ", "))
	}
	return n, nil
}

// Format renders t using tokens YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd.
// A preset name (iso, long, month) may be given instead of a format.
// Use brackets to escape literal text: "[Week of] D MMM".
func Format(t time.Time, format, locale string) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	n, err := lookup(locale)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		tok := matchToken(format[i:])
		if tok == "" {
			out.WriteByte(format[i])
			i++
			continue
		}
		out.WriteString(render(t, tok, n))
		i += len(tok)
	}
	return out.String(), nil
}

func matchToken(s string) string {
	for _, tok := range dateTokens {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

func render(t time.Time, tok string, n names) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return n.months[t.Month()-1]
	case "MMM":
		return shorten(n.months[t.Month()-1])
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return fmt.Sprint(int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return fmt.Sprint(t.Day())
	case "dddd":
		return n.weekdays[t.Weekday()]
	case "ddd":
		return n.weekdayShort[t.Weekday()]
	}
	return tok
}

// shorten returns the first three runes of a month name.
func shorten(s string) string {
	r := []rune(s)
	if len(r) <= 3 {
		return s
	}
	return string(r[:3])
}

// WeekdayHeaders returns abbreviated weekday names, Sunday first.
func WeekdayHeaders(locale string) ([]string, error) {
	n, err := lookup(locale)
	if err != nil {
		return nil, err
	}
	return n.weekdayShort[:], nil
}

// FormatISO renders a calendar date as YYYY-MM-DD.
func FormatISO(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseISO parses a YYYY-MM-DD date into its components.
func ParseISO(s string) (year, month, day int, err error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidISODate, s)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}
