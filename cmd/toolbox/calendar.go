package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/dateutil"
	"github.com/alnah/go-toolbox/internal/hints"
)

// cellWidth is the printed width of one day column.
const cellWidth = 4

// runCalendarCmd prints the current month, a whole year, or one month.
func runCalendarCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCalendarFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	if flags.locale != "" {
		cfg.Calendar.Locale = flags.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	year, month, err := parseYearMonth(positional, env)
	if err != nil {
		return err
	}

	var source toolbox.HolidaySource
	if !flags.offline {
		source = newHolidaySource(cfg)
	}
	cal := toolbox.NewCalendar(source, cfg.Calendar.Locale)

	var views []*toolbox.MonthView
	if month == 0 {
		views, err = cal.Year(ctx, year)
	} else {
		var v *toolbox.MonthView
		v, err = cal.Month(ctx, year, month)
		views = []*toolbox.MonthView{v}
	}
	if err != nil {
		return err
	}

	if flags.json {
		if err := writeCalendarJSON(env.Stdout, views, month == 0); err != nil {
			return err
		}
	} else {
		headers, err := dateutil.WeekdayHeaders(cfg.Calendar.Locale)
		if err != nil {
			return err
		}
		p := newPainter(flags.common.noColor)
		for i, v := range views {
			if i > 0 {
				fmt.Fprintln(env.Stdout)
			}
			printMonth(env.Stdout, v, headers, p)
		}
	}

	if !flags.common.quiet {
		warnHolidayErrors(env.Stderr, views, flags.common.noColor)
	}
	return nil
}

// parseYearMonth reads [YEAR [MONTH]]. Month 0 means the whole year.
func parseYearMonth(args []string, env *Environment) (year, month int, err error) {
	now := env.Now()
	switch len(args) {
	case 0:
		return now.Year(), int(now.Month()), nil
	case 1, 2:
	default:
		return 0, 0, fmt.Errorf("%w: expected [YEAR [MONTH]], got %d arguments", ErrUsage, len(args))
	}

	year, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q is not a number", ErrUsage, args[0])
	}
	if len(args) == 1 {
		if err := calendar.ValidateMonth(year, 1); err != nil {
			return 0, 0, err
		}
		return year, 0, nil
	}

	month, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q is not a number", ErrUsage, args[1])
	}
	if err := calendar.ValidateMonth(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// printMonth renders a Sunday-first grid followed by the month's holidays.
func printMonth(w io.Writer, v *toolbox.MonthView, headers []string, p painter) {
	width := 7 * cellWidth
	title := v.Title
	if pad := (width - len([]rune(title))) / 2; pad > 0 {
		title = strings.Repeat(" ", pad) + title
	}
	fmt.Fprintln(w, p.heading(title))

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%*s", cellWidth, h)
	}
	fmt.Fprintln(w, b.String())

	for _, row := range v.Rows {
		b.Reset()
		for _, c := range row {
			if c == nil {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			day := fmt.Sprintf("%*d", cellWidth, c.Day.Day)
			switch c.Kind {
			case calendar.KindHoliday:
				day = p.holiday(day)
			case calendar.KindWeekend:
				day = p.weekend(day)
			}
			b.WriteString(day)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	for _, h := range v.Holidays {
		fmt.Fprintf(w, "  %s  %s\n", p.holiday(h.Date), h.Name)
	}
}

type calendarJSON struct {
	*toolbox.MonthView
	HolidayError string `json:"holidayError,omitempty"`
}

func writeCalendarJSON(w io.Writer, views []*toolbox.MonthView, wholeYear bool) error {
	out := make([]calendarJSON, len(views))
	for i, v := range views {
		out[i] = calendarJSON{MonthView: v}
		if v.HolidayErr != nil {
			out[i].HolidayError = v.HolidayErr.Error()
		}
	}

	if wholeYear {
		return writeJSON(w, map[string]any{"year": views[0].Grid.Year, "months": out})
	}
	return writeJSON(w, out[0])
}

// warnHolidayErrors reports the first holiday failure once; the grids
// above it are still complete.
func warnHolidayErrors(w io.Writer, views []*toolbox.MonthView, noColor bool) {
	failed := 0
	var first error
	for _, v := range views {
		if v.HolidayErr != nil {
			failed++
			if first == nil {
				first = v.HolidayErr
			}
		}
	}
	if first == nil {
		return
	}
	p := newPainter(noColor)
	msg := first.Error()
	if failed > 1 {
		msg = fmt.Sprintf("%s (and %d more months)", msg, failed-1)
	}
	fmt.Fprintf(w, "%s holidays unavailable: %s%s\n", p.warn("warning:"), msg, hints.ForUpstream(envHolidayURL))
}
