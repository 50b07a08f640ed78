package budget

import (
	"fmt"
	"strings"
	"time"
)

// RangePreset is a named reporting window that resolves to a concrete start date.
type RangePreset string

// Supported presets.
const (
	Last4Weeks  RangePreset = "4w"
	Last8Weeks  RangePreset = "8w"
	Last3Months RangePreset = "3m"
	Last6Months RangePreset = "6m"
	YearToDate  RangePreset = "ytd"
	AllTime     RangePreset = "all"
)

// Epoch is the start of the AllTime preset.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// RangePresets lists the presets in menu order.
var RangePresets = []RangePreset{Last4Weeks, Last8Weeks, Last3Months, Last6Months, YearToDate, AllTime}

// ParseRangePreset accepts a preset code such as "8w" or "ytd".
func ParseRangePreset(s string) (RangePreset, error) {
	p := RangePreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range RangePresets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown range %q (want one of 4w, 8w, 3m, 6m, ytd, all)", s)
}

// Start returns the first day of the preset window ending at now.
func (p RangePreset) Start(now time.Time) time.Time {
	today := startOfDay(now)
	switch p {
	case Last4Weeks:
		return today.AddDate(0, 0, -28)
	case Last8Weeks:
		return today.AddDate(0, 0, -56)
	case Last3Months:
		return today.AddDate(0, -3, 0)
	case Last6Months:
		return today.AddDate(0, -6, 0)
	case YearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return Epoch.In(now.Location())
	}
}

// Description is a human readable name for the preset.
func (p RangePreset) Description() string {
	switch p {
	case Last4Weeks:
		return "Last 4 weeks"
	case Last8Weeks:
		return "Last 8 weeks"
	case Last3Months:
		return "Last 3 months"
	case Last6Months:
		return "Last 6 months"
	case YearToDate:
		return "Year to date"
	default:
		return "All time"
	}
}

// ParseWeekday accepts a weekday name ("sunday", "Mon") or number 0-6 with
// Sunday as 0.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return time.Weekday(s[0] - '0'), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid week start day %q", s)
}
