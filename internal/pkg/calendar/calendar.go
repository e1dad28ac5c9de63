// Package calendar lays out a month of attendance as week rows for rendering.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of a month selector, e.g. "2024-03".
const MonthLayout = "2006-01"

const (
	daysPerWeek = 7
	maxWeeks    = 6
)

// ErrInvalidMonth is returned for a month outside 1..12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Cell is one slot of a week row. Blank cells pad the first and last week.
type Cell struct {
	Blank    bool   `json:"blank"`
	Day      int    `json:"day,omitempty"`
	Date     string `json:"date,omitempty"`
	IsMarked bool   `json:"is_marked"`
	IsToday  bool   `json:"is_today"`
}

// Week is one row of the grid, always seven cells.
type Week [daysPerWeek]Cell

// Grid holds the weeks of a month in order, at most six.
type Grid []Week

// MonthGrid is a rendered month together with its attendance summary.
type MonthGrid struct {
	Year           int          `json:"year"`
	Month          int          `json:"month"`
	WeekStart      time.Weekday `json:"week_start"`
	FirstDayOffset int          `json:"first_day_offset"`
	Grid           Grid         `json:"grid"`
	PresentCount   int          `json:"present_count"`
	TotalDays      int          `json:"total_days"`
}

// IsLeapYear applies the proleptic Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// FirstDayOffset is the number of leading blank cells before day 1 for weeks starting on weekStart.
func FirstDayOffset(year, month int, weekStart time.Weekday) int {
	first := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.UTC).Weekday()
	return (int(first) - int(weekStart) + daysPerWeek) % daysPerWeek
}

// FormatDate renders a calendar day as YYYY-MM-DD.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// AdjacentMonth moves delta months away from (year, month), rolling the year over as needed.
func AdjacentMonth(year, month, delta int) (int, int) {
	idx := year*12 + (month - 1) + delta
	y, m := idx/12, idx%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m + 1
}

// ParseMonth parses a "YYYY-MM" selector.
func ParseMonth(s string) (int, int, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, ErrInvalidMonth)
	}
	return t.Year(), int(t.Month()), nil
}

// MonthRange returns the first and last day of the month as dates.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month), DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return start, end, nil
}

// DateSet is a set of YYYY-MM-DD strings.
type DateSet map[string]struct{}

// NewDateSet builds a set from dates, dropping duplicates.
func NewDateSet(dates ...string) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

// Sorted returns the dates in ascending order.
func (s DateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// BuildMonthGrid lays the month out in Sunday-first weeks.
func BuildMonthGrid(year, month int, marked DateSet, today string) (MonthGrid, error) {
	return BuildMonthGridWithWeekStart(year, month, marked, today, time.Sunday)
}

// BuildMonthGridWithWeekStart lays the month out in weeks starting on weekStart.
// today is supplied by the caller so the result depends only on the arguments.
func BuildMonthGridWithWeekStart(year, month int, marked DateSet, today string, weekStart time.Weekday) (MonthGrid, error) {
	if month < 1 || month > 12 {
		return MonthGrid{}, ErrInvalidMonth
	}
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Sunday
	}

	totalDays := DaysInMonth(year, month)
	offset := FirstDayOffset(year, month, weekStart)

	grid := make(Grid, 0, maxWeeks)
	var week Week
	col := 0
	for ; col < offset; col++ {
		week[col] = Cell{Blank: true}
	}

	present := 0
	for day := 1; day <= totalDays; day++ {
		date := FormatDate(year, month, day)
		isMarked := marked.Has(date)
		if isMarked {
			present++
		}
		week[col] = Cell{
			Day:      day,
			Date:     date,
			IsMarked: isMarked,
			IsToday:  date == today,
		}
		col++
		if col == daysPerWeek {
			grid = append(grid, week)
			week = Week{}
			col = 0
		}
	}

	if col > 0 {
		for ; col < daysPerWeek; col++ {
			week[col] = Cell{Blank: true}
		}
		grid = append(grid, week)
	}

	return MonthGrid{
		Year:           year,
		Month:          month,
		WeekStart:      weekStart,
		FirstDayOffset: offset,
		Grid:           grid,
		PresentCount:   present,
		TotalDays:      totalDays,
	}, nil
}
