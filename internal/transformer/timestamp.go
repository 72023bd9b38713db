package transformer

import (
	"errors"
	"fmt"
	"time"
)

// LayoutDateTime is the layout of the TLC trip files. It has a hand-written
// parser; every other layout goes through time.Parse.
const LayoutDateTime = "2006-01-02 15:04:05"

// DefaultLayouts are tried in order when no layouts are configured.
var DefaultLayouts = []string{
	LayoutDateTime,
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
	"2006-01-02",
}

// ErrTimestamp is wrapped by ParseTimestamp when no layout matches.
var ErrTimestamp = errors.New("unrecognized timestamp")

// ParseTimestamp parses s with the first matching layout. An empty layouts
// slice means DefaultLayouts. Values carrying a zone offset are converted to
// UTC; values without one are taken as UTC wall time.
func ParseTimestamp(s string, layouts []string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	for _, l := range layouts {
		if l == LayoutDateTime {
			if t, ok := parseDateTime(s); ok {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrTimestamp, s)
}

// parseDateTime parses "YYYY-MM-DD hh:mm:ss" without allocating.
func parseDateTime(s string) (time.Time, bool) {
	if len(s) != 19 || s[4] != '-' || s[7] != '-' || s[10] != ' ' || s[13] != ':' || s[16] != ':' {
		return time.Time{}, false
	}
	num := func(i, n int) (int, bool) {
		v := 0
		for _, c := range []byte(s[i : i+n]) {
			d := c - '0'
			if d > 9 {
				return 0, false
			}
			v = v*10 + int(d)
		}
		return v, true
	}
	year, ok1 := num(0, 4)
	mon, ok2 := num(5, 2)
	day, ok3 := num(8, 2)
	hh, ok4 := num(11, 2)
	mm, ok5 := num(14, 2)
	ss, ok6 := num(17, 2)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return time.Time{}, false
	}
	if mon < 1 || mon > 12 || day < 1 || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(mon), day, hh, mm, ss, 0, time.UTC)
	// time.Date normalizes 2021-02-30 into March.
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
