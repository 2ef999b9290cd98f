package toolbox

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-toolbox/internal/calendar"
)

// Holiday is a named date in YYYY-MM-DD form.
type Holiday = calendar.Holiday

// HolidaySource returns the holidays of one month. Implementations are
// expected to cache; see internal/holiday.
type HolidaySource interface {
	Holidays(ctx context.Context, year, month int) ([]Holiday, error)
}

// MonthView is a month grid with its holiday overlay.
type MonthView struct {
	Title    string             `json:"title"`
	Grid     calendar.Month     `json:"grid"`
	Cells    []calendar.Cell    `json:"cells"`
	Holidays []Holiday          `json:"holidays"`
	Rows     [][]*calendar.Cell `json:"-"`
	// HolidayErr is set when the source failed; the grid is still complete.
	HolidayErr error `json:"-"`
}

// Calendar builds month views, consulting a holiday source after the grid
// is computed.
type Calendar struct {
	source HolidaySource
	locale string
}

// NewCalendar returns a Calendar. A nil source renders grids without
// holidays.
func NewCalendar(source HolidaySource, locale string) *Calendar {
	return &Calendar{source: source, locale: locale}
}

// BuildMonth computes the grid for (year, month) without any holiday data.
func BuildMonth(year, month int) (calendar.Month, error) {
	if err := calendar.ValidateMonth(year, month); err != nil {
		return calendar.Month{}, err
	}
	return calendar.Build(year, month), nil
}

// Month returns the view for (year, month). A holiday fetch failure is
// recorded in HolidayErr and never fails the call.
func (c *Calendar) Month(ctx context.Context, year, month int) (*MonthView, error) {
	grid, err := BuildMonth(year, month)
	if err != nil {
		return nil, err
	}
	title, err := grid.Title(c.locale)
	if err != nil {
		return nil, err
	}

	view := &MonthView{Title: title, Grid: grid}

	var holidays []Holiday
	if c.source != nil {
		hs, err := c.source.Holidays(ctx, year, month)
		if err != nil {
			view.HolidayErr = fmt.Errorf("holidays for %04d-%02d: %w", year, month, err)
		} else {
			holidays = hs
		}
	}

	view.Cells = calendar.Overlay(grid, holidays)
	view.Rows = calendar.Rows(grid, view.Cells)
	view.Holidays = calendar.InMonth(grid, holidays)
	if view.Holidays == nil {
		view.Holidays = []Holiday{}
	}
	return view, nil
}

// Year returns the twelve views of year, fetched concurrently.
func (c *Calendar) Year(ctx context.Context, year int) ([]*MonthView, error) {
	if err := calendar.ValidateMonth(year, 1); err != nil {
		return nil, err
	}

	views := make([]*MonthView, 12)
	g, gctx := errgroup.WithContext(ctx)
	for i := range views {
		g.Go(func() error {
			v, err := c.Month(gctx, year, i+1)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
