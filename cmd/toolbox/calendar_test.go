package main

// Notes:
// - parseYearMonth: we test the [YEAR [MONTH]] forms against a fixed clock.
// - runCalendarCmd: we test text and JSON output against a fake holiday service,
//   offline mode, and that a failing service only warns.
// - Colors: tests pass --no-color; escape sequences are not asserted.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestParseYearMonth - Positional arguments
// ---------------------------------------------------------------------------

func TestParseYearMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantYear  int
		wantMonth int
		wantErr   error
	}{
		{name: "current month", args: nil, wantYear: 2024, wantMonth: 1},
		{name: "whole year", args: []string{"2025"}, wantYear: 2025, wantMonth: 0},
		{name: "one month", args: []string{"2024", "2"}, wantYear: 2024, wantMonth: 2},
		{name: "month zero", args: []string{"2024", "0"}, wantErr: calendar.ErrInvalidMonth},
		{name: "month thirteen", args: []string{"2024", "13"}, wantErr: calendar.ErrInvalidMonth},
		{name: "year out of range", args: []string{"0"}, wantErr: calendar.ErrInvalidYear},
		{name: "year not a number", args: []string{"next"}, wantErr: ErrUsage},
		{name: "month not a number", args: []string{"2024", "feb"}, wantErr: ErrUsage},
		{name: "too many", args: []string{"2024", "1", "1"}, wantErr: ErrUsage},
	}

	env := newTestEnv()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			year, month, err := parseYearMonth(tt.args, env.Environment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("parseYearMonth(%v) = %d, %d, %v; want %d, %d", tt.args, year, month, err, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunCalendarCmd - Text and JSON rendering
// ---------------------------------------------------------------------------

func TestRunCalendarCmd_Text(t *testing.T) {
	t.Parallel()

	cfg := upstreamConfig(t, fakeServices(t, http.StatusOK))
	env := newTestEnv()

	if err := runCalendarCmd(context.Background(), []string{"-c", cfg, "--no-color"}, env.Environment); err != nil {
		t.Fatalf("runCalendarCmd() error = %v", err)
	}
	out := env.stdout.String()

	for _, want := range []string{"January 2024", " Sun Mon Tue Wed Thu Fri Sat", "2024-01-01  New Year's Day"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Lunar New Year") {
		t.Errorf("holiday outside the month was listed:\n%s", out)
	}

	// January 2024 starts on a Monday: one blank column, then 1..6.
	if !strings.Contains(out, "\n       1   2   3   4   5   6\n") {
		t.Errorf("first week misaligned:\n%s", out)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", env.stderr)
	}
}

func TestRunCalendarCmd_Locale(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	if err := runCalendarCmd(context.Background(), []string{"2024", "8", "--offline", "-l", "id"}, env.Environment); err != nil {
		t.Fatalf("runCalendarCmd() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Agustus 2024") || !strings.Contains(env.stdout.String(), "Min") {
		t.Errorf("output not localized:\n%s", env.stdout)
	}
}

func TestRunCalendarCmd_UnknownLocale(t *testing.T) {
	t.Parallel()

	err := runCalendarCmd(context.Background(), []string{"--offline", "-l", "fr"}, newTestEnv().Environment)
	if !errors.Is(err, dateutil.ErrUnknownLocale) {
		t.Errorf("error = %v, want ErrUnknownLocale", err)
	}
}

func TestRunCalendarCmd_JSON(t *testing.T) {
	t.Parallel()

	cfg := upstreamConfig(t, fakeServices(t, http.StatusOK))
	env := newTestEnv()

	if err := runCalendarCmd(context.Background(), []string{"2024", "1", "--json", "-c", cfg}, env.Environment); err != nil {
		t.Fatalf("runCalendarCmd() error = %v", err)
	}

	var got struct {
		Title string `json:"title"`
		Grid  struct {
			DaysInMonth        int `json:"daysInMonth"`
			FirstWeekdayOffset int `json:"firstWeekdayOffset"`
		} `json:"grid"`
		Cells []struct {
			Date string `json:"date"`
			Kind string `json:"kind"`
		} `json:"cells"`
		Holidays     []toolbox.Holiday `json:"holidays"`
		HolidayError string            `json:"holidayError"`
	}
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.stdout)
	}
	if got.Title != "January 2024" || got.Grid.DaysInMonth != 31 || got.Grid.FirstWeekdayOffset != 1 {
		t.Errorf("header = %q, %d days, offset %d", got.Title, got.Grid.DaysInMonth, got.Grid.FirstWeekdayOffset)
	}
	if len(got.Cells) != 31 || got.Cells[0].Kind != "holiday" || got.Cells[5].Kind != "weekend" {
		t.Errorf("cells = %+v", got.Cells)
	}
	if len(got.Holidays) != 1 || got.HolidayError != "" {
		t.Errorf("holidays = %+v, error %q", got.Holidays, got.HolidayError)
	}
}

func TestRunCalendarCmd_YearJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	if err := runCalendarCmd(context.Background(), []string{"2024", "--json", "--offline"}, env.Environment); err != nil {
		t.Fatalf("runCalendarCmd() error = %v", err)
	}

	var got struct {
		Year   int `json:"year"`
		Months []struct {
			Title string `json:"title"`
		} `json:"months"`
	}
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Year != 2024 || len(got.Months) != 12 || got.Months[11].Title != "December 2024" {
		t.Errorf("year = %d, %d months", got.Year, len(got.Months))
	}
}

func TestRunCalendarCmd_HolidayServiceDown(t *testing.T) {
	t.Parallel()

	cfg := upstreamConfig(t, fakeServices(t, http.StatusBadGateway))
	env := newTestEnv()

	err := runCalendarCmd(context.Background(), []string{"2024", "-c", cfg, "--no-color"}, env.Environment)
	if err != nil {
		t.Fatalf("runCalendarCmd() error = %v, want nil (grid still rendered)", err)
	}
	if got := strings.Count(env.stdout.String(), "2024\n"); got != 12 {
		t.Errorf("rendered %d month titles, want 12", got)
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "holidays unavailable") || !strings.Contains(stderr, "and 11 more months") {
		t.Errorf("stderr = %q, want one aggregated warning", stderr)
	}
	if !strings.Contains(stderr, envHolidayURL) {
		t.Errorf("stderr = %q, want hint naming %s", stderr, envHolidayURL)
	}
}
