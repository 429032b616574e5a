package domain

import (
	"strings"
	"time"
)

var deliveryDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseDeliveryDate parses an ISO-8601 delivery date and returns the start of
// its calendar day in loc. Values carrying an offset are converted to loc
// first; values without one are read as wall time in loc.
func ParseDeliveryDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range deliveryDateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return StartOfDay(t, loc), true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to midnight of its calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
