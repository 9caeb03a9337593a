// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidTimeRange is returned for text that is not "H:MM[am|pm]-H:MM[am|pm]".
var ErrInvalidTimeRange = errors.New("invalid time range")

// Interval is a window on the 24-hour minute-of-day scale (0..1440).
type Interval struct {
	Start int
	End   int
}

// Within reports whether iv lies fully inside outer (boundaries inclusive).
func (iv Interval) Within(outer Interval) bool {
	return iv.Start >= outer.Start && iv.End <= outer.End
}

var timeRangeRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})(am|pm)?-(\d{1,2}):(\d{2})(am|pm)?$`)

var meridiemReplacer = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "–", "-")

// ParseTimeRange parses "08:00-09:30", "8:00am-9:30PM" and the like.
// Whitespace and letter case are ignored. Each bound carries its own
// optional meridiem; a bound without one is read on the 24-hour clock.
// Ranges whose end precedes their start are returned as written.
func ParseTimeRange(s string) (Interval, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	compact = meridiemReplacer.Replace(compact)

	m := timeRangeRE.FindStringSubmatch(compact)
	if m == nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}

	start, err := minuteOfDay(m[1], m[2], m[3])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeRange, s, err)
	}
	end, err := minuteOfDay(m[4], m[5], m[6])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimeRange, s, err)
	}
	return Interval{Start: start, End: end}, nil
}

func minuteOfDay(hh, mm, meridiem string) (int, error) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if minute > 59 {
		return 0, fmt.Errorf("minute %d out of range", minute)
	}

	switch meridiem {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour %d out of range for %s", hour, meridiem)
		}
		hour %= 12
		if meridiem == "pm" {
			hour += 12
		}
	default:
		if hour > 24 || (hour == 24 && minute != 0) {
			return 0, fmt.Errorf("hour %d out of range", hour)
		}
	}
	return hour*60 + minute, nil
}
