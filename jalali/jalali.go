// Package jalali converts between Gregorian dates and their solar-Hijri
// (Jalali) string form. Date-bearing rows store both representations;
// all persistence paths go through ToJalali so the stored string never
// drifts from the canonical Gregorian date.
package jalali

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// FormatError reports a date string that could not be parsed. It is
// always recovered locally (the offending field is rejected); it never
// escalates into a fatal fault.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q (want YYYY-MM-DD or Jalali YYYY/MM/DD)", e.Input)
}

// ToJalali renders a Gregorian date as a zero-padded Jalali YYYY/MM/DD
// string. Failures are defensive only (dates far outside the calendar's
// range); callers leave the display field empty in that case.
func ToJalali(t time.Time) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jalali conversion failed for %s: %v", t.Format("2006-01-02"), r)
		}
	}()
	pt := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day()), nil
}

// ParseDate accepts either an ISO Gregorian date (YYYY-MM-DD) or a
// Jalali date (YYYY/MM/DD) and returns the Gregorian date at UTC
// midnight. Malformed input yields *FormatError.
func ParseDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	switch {
	case strings.Contains(s, "-"):
		return parseGregorian(s)
	case strings.Contains(s, "/"):
		return parseJalali(s)
	}
	return time.Time{}, &FormatError{Input: input}
}

func splitYMD(s, sep string) (y, m, d int, ok bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], true
}

func parseGregorian(s string) (time.Time, error) {
	y, m, d, ok := splitYMD(s, "-")
	if !ok || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, &FormatError{Input: s}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 2); reject it.
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, &FormatError{Input: s}
	}
	return t, nil
}

func parseJalali(s string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, &FormatError{Input: s}
		}
	}()
	y, m, d, ok := splitYMD(s, "/")
	if !ok || y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, &FormatError{Input: s}
	}
	pt := ptime.Date(y, ptime.Month(m), d, 0, 0, 0, 0, time.UTC)
	if pt.Year() != y || int(pt.Month()) != m || pt.Day() != d {
		return time.Time{}, &FormatError{Input: s}
	}
	g := pt.Time()
	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, time.UTC), nil
}
