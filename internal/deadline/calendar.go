// Package deadline computes task deadlines in business days, skipping
// weekends and a holiday table.
package deadline

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format of deadline dates.
const DateLayout = "2006-01-02"

const recurringLayout = "01-02"

var (
	ErrWeekend     = errors.New("deadline falls on a weekend")
	ErrHoliday     = errors.New("deadline falls on a holiday")
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)

// HolidayError reports which holiday a rejected date falls on.
type HolidayError struct {
	Date string
	Name string
}

func (e *HolidayError) Error() string {
	return fmt.Sprintf("%s is a holiday (%s)", e.Date, e.Name)
}

func (e *HolidayError) Unwrap() error {
	return ErrHoliday
}

// Holiday is one entry of the holiday table. Date is either a full
// YYYY-MM-DD date or MM-DD for a holiday observed every year.
type Holiday struct {
	Date string `yaml:"date" json:"date"`
	Name string `yaml:"name" json:"name"`
}

// DefaultHolidays is used when no holiday file is configured.
var DefaultHolidays = []Holiday{
	{Date: "01-01", Name: "New Year's Day"},
	{Date: "05-01", Name: "Labour Day"},
	{Date: "12-25", Name: "Christmas Day"},
	{Date: "12-26", Name: "Boxing Day"},
}

// Calendar knows which days count as business days.
type Calendar struct {
	fixed     map[string]string
	recurring map[string]string
	holidays  []Holiday
}

// NewCalendar builds a calendar from a holiday table.
func NewCalendar(holidays []Holiday) (*Calendar, error) {
	c := &Calendar{
		fixed:     make(map[string]string),
		recurring: make(map[string]string),
	}
	for _, h := range holidays {
		switch {
		case isLayout(DateLayout, h.Date):
			c.fixed[h.Date] = h.Name
		case isLayout(recurringLayout, h.Date):
			c.recurring[h.Date] = h.Name
		default:
			return nil, fmt.Errorf("holiday %q: invalid date %q", h.Name, h.Date)
		}
		c.holidays = append(c.holidays, h)
	}
	sort.SliceStable(c.holidays, func(i, j int) bool {
		return c.holidays[i].Date < c.holidays[j].Date
	})
	return c, nil
}

// LoadCalendar reads a YAML holiday table, or returns the default calendar
// when path is empty.
//
//	holidays:
//	  - date: "2026-01-01"
//	    name: New Year's Day
func LoadCalendar(path string) (*Calendar, error) {
	if path == "" {
		return NewCalendar(DefaultHolidays)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}

	var file struct {
		Holidays []Holiday `yaml:"holidays"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holidays file: %w", err)
	}
	return NewCalendar(file.Holidays)
}

// Holidays returns the holiday table sorted by date.
func (c *Calendar) Holidays() []Holiday {
	out := make([]Holiday, len(c.holidays))
	copy(out, c.holidays)
	return out
}

// HolidayName returns the holiday observed on day, if any.
func (c *Calendar) HolidayName(day time.Time) (string, bool) {
	if name, ok := c.fixed[day.Format(DateLayout)]; ok {
		return name, true
	}
	name, ok := c.recurring[day.Format(recurringLayout)]
	return name, ok
}

// IsBusinessDay reports whether day is neither a weekend nor a holiday.
func (c *Calendar) IsBusinessDay(day time.Time) bool {
	if isWeekend(day) {
		return false
	}
	_, holiday := c.HolidayName(day)
	return !holiday
}

// AddBusinessDays walks forward from the day of from and returns the n-th
// business day after it. n <= 0 returns the day of from.
func (c *Calendar) AddBusinessDays(from time.Time, n int) time.Time {
	day := truncate(from)
	for counted := 0; counted < n; {
		day = day.AddDate(0, 0, 1)
		if c.IsBusinessDay(day) {
			counted++
		}
	}
	return day
}

// Validate rejects deadlines that fall on a weekend or a holiday.
func (c *Calendar) Validate(day time.Time) error {
	if isWeekend(day) {
		return ErrWeekend
	}
	if name, ok := c.HolidayName(day); ok {
		return &HolidayError{Date: day.Format(DateLayout), Name: name}
	}
	return nil
}

// ValidateString parses a YYYY-MM-DD date and validates it.
func (c *Calendar) ValidateString(date string) error {
	day, err := Parse(date)
	if err != nil {
		return err
	}
	return c.Validate(day)
}

// Parse reads a YYYY-MM-DD date.
func Parse(date string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

// Format renders a date in the wire format.
func Format(day time.Time) string {
	return day.Format(DateLayout)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isLayout(layout, value string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}
