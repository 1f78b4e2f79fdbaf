package entities

import (
	"strconv"
	"strings"
	"time"
)

// IsOpenAt reports whether the place is open at the given instant.
//
// The explicit OpenNow field wins when set. Otherwise availability is derived
// from AvailabilityDays (weekday names, matched case-insensitively) and the
// HH:MM start/end time strings. An end time numerically before the start time
// means the window wraps past midnight.
//
// A place with no availability data at all is considered open: filters must
// degrade gracefully for records that never declared hours.
func (p Place) IsOpenAt(t time.Time) bool {
	if p.OpenNow != nil {
		return *p.OpenNow
	}

	if len(p.AvailabilityDays) == 0 && p.AvailabilityStartTime == "" && p.AvailabilityEndTime == "" {
		return true
	}

	if len(p.AvailabilityDays) > 0 && !matchesWeekday(p.AvailabilityDays, t.Weekday()) {
		return false
	}

	start, okStart := parseClock(p.AvailabilityStartTime)
	end, okEnd := parseClock(p.AvailabilityEndTime)

	if !okStart || !okEnd {
		return true
	}

	now := t.Hour()*60 + t.Minute()

	if end < start {
		// Window wraps past midnight, e.g. 22:00 - 02:00.
		return now >= start || now <= end
	}

	return now >= start && now <= end
}

func matchesWeekday(days []string, wd time.Weekday) bool {
	want := strings.ToLower(wd.String())

	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == want || (len(d) >= 3 && strings.HasPrefix(want, d[:3])) {
			return true
		}
	}

	return false
}

// parseClock parses "HH:MM" (seconds tolerated and ignored) into minutes
// since midnight.
func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}
