package calendar

// Kind is how a day cell renders. Precedence is Holiday > Weekend > Weekday.
type Kind int

const (
	KindWeekday Kind = iota
	KindWeekend
	KindHoliday
)

// String returns the lowercase kind name used in JSON and CLI output.
func (k Kind) String() string {
	switch k {
	case KindHoliday:
		return "holiday"
	case KindWeekend:
		return "weekend"
	default:
		return "weekday"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Cell is a day with its overlay applied.
type Cell struct {
	Day
	Kind    Kind     `json:"kind"`
	Holiday *Holiday `json:"holiday,omitempty"`
}

// Overlay matches holidays against the days of m. When several holidays
// share a date, the first one in the slice wins. A nil or empty slice
// yields the plain grid.
func Overlay(m Month, holidays []Holiday) []Cell {
	byDate := make(map[string]*Holiday, len(holidays))
	for i := range holidays {
		if _, seen := byDate[holidays[i].Date]; !seen {
			byDate[holidays[i].Date] = &holidays[i]
		}
	}

	cells := make([]Cell, len(m.Days))
	for i, d := range m.Days {
		c := Cell{Day: d, Kind: KindWeekday}
		switch h := byDate[d.Date]; {
		case h != nil:
			hc := *h
			c.Kind, c.Holiday = KindHoliday, &hc
		case d.IsWeekend:
			c.Kind = KindWeekend
		}
		cells[i] = c
	}
	return cells
}

// Rows arranges cells into 7-column weeks, Sunday first. Leading and
// trailing blanks are nil.
func Rows(m Month, cells []Cell) [][]*Cell {
	total := m.FirstWeekdayOffset + len(cells)
	weeks := (total + 6) / 7

	rows := make([][]*Cell, weeks)
	for w := range rows {
		rows[w] = make([]*Cell, 7)
	}
	for i := range cells {
		pos := m.FirstWeekdayOffset + i
		rows[pos/7][pos%7] = &cells[i]
	}
	return rows
}

// InMonth returns the holidays whose date falls within m, in input order,
// without duplicates by date.
func InMonth(m Month, holidays []Holiday) []Holiday {
	valid := make(map[string]bool, len(m.Days))
	for _, d := range m.Days {
		valid[d.Date] = true
	}

	var out []Holiday
	seen := make(map[string]bool)
	for _, h := range holidays {
		if valid[h.Date] && !seen[h.Date] {
			seen[h.Date] = true
			out = append(out, h)
		}
	}
	return out
}
