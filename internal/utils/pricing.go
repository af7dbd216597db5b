package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const millisPerHour = 1000 * 60 * 60

// RentalHours returns the elapsed hours between start and end, measured in
// whole milliseconds. It is fractional for partial hours.
func RentalHours(start, end time.Time) float64 {
	return float64(end.Sub(start).Milliseconds()) / millisPerHour
}

// TotalPrice is hours(end - start) * costPerHour. The price is undefined
// (ok == false) when either date is unset or end is not after start.
func TotalPrice(start, end *time.Time, costPerHour float64) (price float64, ok bool) {
	if start == nil || end == nil {
		return 0, false
	}
	if !end.After(*start) {
		return 0, false
	}
	return RentalHours(*start, *end) * costPerHour, true
}

// dateTimeLayouts are the input formats accepted from forms and flags, most
// specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime converts user input into a time. Inputs without an offset are
// read in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or yyyy-mm-ddThh:mm", value)
}

// FormatDate renders a date as "2nd January, 2006".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", ordinal(t.Day()), t.Month().String(), t.Year())
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// FormatPrice renders an amount the way the dashboard shows it, e.g. "12.5 $".
func FormatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " $"
}
