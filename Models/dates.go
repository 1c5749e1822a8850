package Models

import (
	"os"
	"strconv"
	"time"
)

// The whole engine reasons about calendar days in the warehouse's single
// operating time zone, expressed as a fixed offset from UTC (TIME_OFFSET_HOURS,
// default +2). Day strings must be produced here and nowhere else, otherwise
// local-vs-UTC boundaries create off-by-one days.

const dateLayout = "2006-01-02"

func operatingOffset() time.Duration {
	hours := 2
	if v := os.Getenv("TIME_OFFSET_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			hours = parsed
		}
	}
	return time.Duration(hours) * time.Hour
}

// CountDate returns today's date string and weekday in the operating zone.
func CountDate() (string, time.Weekday) {
	return CountDateAt(time.Now())
}

// CountDateAt is CountDate for an arbitrary instant.
func CountDateAt(t time.Time) (string, time.Weekday) {
	local := t.UTC().Add(operatingOffset())
	return local.Format(dateLayout), local.Weekday()
}
