package calendar

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOverlay_Precedence(t *testing.T) {
	t.Parallel()

	m := Build(2024, 1)
	cells := Overlay(m, []Holiday{{Date: "2024-01-01", Name: "New Year"}})

	for _, c := range cells {
		var want Kind
		switch c.Day.Day {
		case 1:
			want = KindHoliday
		case 6, 7, 13, 14, 20, 21, 27, 28:
			want = KindWeekend
		default:
			want = KindWeekday
		}
		if c.Kind != want {
			t.Errorf("day %d kind = %v, want %v", c.Day.Day, c.Kind, want)
		}
	}
	if h := cells[0].Holiday; h == nil || h.Name != "New Year" {
		t.Errorf("day 1 holiday = %+v, want New Year", h)
	}
}

func TestOverlay_HolidayBeatsWeekend(t *testing.T) {
	t.Parallel()

	cells := Overlay(Build(2024, 1), []Holiday{{Date: "2024-01-06", Name: "Saturday Feast"}})
	if cells[5].Kind != KindHoliday {
		t.Errorf("day 6 kind = %v, want holiday", cells[5].Kind)
	}
}

func TestOverlay_FirstDuplicateWins(t *testing.T) {
	t.Parallel()

	cells := Overlay(Build(2024, 1), []Holiday{
		{Date: "2024-01-01", Name: "First"},
		{Date: "2024-01-01", Name: "Second"},
	})
	if got := cells[0].Holiday.Name; got != "First" {
		t.Errorf("day 1 holiday = %q, want First", got)
	}
}

func TestOverlay_NoHolidaysIsPlainGrid(t *testing.T) {
	t.Parallel()

	m := Build(2024, 2)
	for _, c := range Overlay(m, nil) {
		if c.Kind == KindHoliday || c.Holiday != nil {
			t.Fatalf("day %d marked as holiday without data", c.Day.Day)
		}
	}
}

func TestOverlay_IgnoresOtherMonths(t *testing.T) {
	t.Parallel()

	cells := Overlay(Build(2024, 1), []Holiday{{Date: "2024-02-01", Name: "Elsewhere"}})
	if cells[0].Kind != KindWeekday {
		t.Errorf("day 1 kind = %v, want weekday", cells[0].Kind)
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	m := Build(2024, 1) // starts Monday, 31 days
	rows := Rows(m, Overlay(m, nil))

	if len(rows) != 5 {
		t.Fatalf("Rows() = %d weeks, want 5", len(rows))
	}
	if rows[0][0] != nil {
		t.Errorf("leading blank missing: %+v", rows[0][0])
	}
	if rows[0][1] == nil || rows[0][1].Day.Day != 1 {
		t.Errorf("day 1 not in Monday column")
	}
	if rows[4][3] == nil || rows[4][3].Day.Day != 31 {
		t.Errorf("day 31 not on Wednesday of week 5")
	}
	if rows[4][4] != nil {
		t.Errorf("trailing blank missing")
	}
}

func TestInMonth(t *testing.T) {
	t.Parallel()

	got := InMonth(Build(2024, 1), []Holiday{
		{Date: "2024-01-01", Name: "A"},
		{Date: "2023-12-25", Name: "B"},
		{Date: "2024-01-01", Name: "C"},
		{Date: "2024-01-31", Name: "D"},
	})
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "D" {
		t.Errorf("InMonth() = %+v, want [A D]", got)
	}
}

func TestCell_JSON(t *testing.T) {
	t.Parallel()

	cells := Overlay(Build(2024, 1), []Holiday{{Date: "2024-01-01", Name: "New Year"}})
	data, err := json.Marshal(cells[0])
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	for _, want := range []string{`"kind":"holiday"`, `"date":"2024-01-01"`, `"name":"New Year"`, `"day":1`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}
