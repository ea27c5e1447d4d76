package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 2000
	MaxYear = 9999
)

// Period identifies one monthly billing cycle.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	return p, p.Validate()
}

// PeriodOf returns the billing period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// ParsePeriod parses month and year query values.
func ParsePeriod(month, year string) (Period, error) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return Period{}, Validation("invalid month %q", month)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Period{}, Validation("invalid year %q", year)
	}
	return NewPeriod(m, y)
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return Validation("month must be between 1 and 12, got %d", p.Month)
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return Validation("year must be between %d and %d, got %d", MinYear, MaxYear, p.Year)
	}
	return nil
}

// Key renders the period as YYYY-MM.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Compact renders the period as YYYYMM, used in receipt numbers.
func (p Period) Compact() string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}

// Label renders the period for people, e.g. "March 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string { return p.Key() }
