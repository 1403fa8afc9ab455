package utils

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

const DefaultZone = "Asia/Kolkata"

// DayLayout matches the date column of the result chart, e.g. "10-05".
const DayLayout = "02-01"

// LoadZone resolves name, falling back to a fixed IST offset if the zone
// database has no entry.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultZone {
			return time.FixedZone("IST", 5*3600+1800), nil
		}
		return nil, fmt.Errorf("load zone %q: %w", name, err)
	}
	return loc, nil
}

// DayLabel formats t in loc as a chart day label.
func DayLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// CollectionDay returns the day results are being collected for. Up to and
// including cutoff (minutes since midnight) the previous day is still open,
// because the last market of a day settles after midnight.
func CollectionDay(now time.Time, loc *time.Location, cutoff int) string {
	local := now.In(loc)
	if MinuteOfDay(local) <= cutoff {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DayLayout)
}

func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseHHMM parses "HH:MM" and returns minutes since midnight.
func ParseHHMM(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if hhmm[i] < '0' || hhmm[i] > '9' {
			return 0, false
		}
	}
	hh := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	mm := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if hh > 23 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

func FormatHHMM(minutes int) string {
	minutes = (minutes%1440 + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// InWindow checks if minuteOfDay is within [start, end], both inclusive.
// Supports windows that cross midnight, e.g. 23:55 -> 00:05.
func InWindow(minuteOfDay int, start int, end int) bool {
	if start <= end {
		return minuteOfDay >= start && minuteOfDay <= end
	}
	return minuteOfDay >= start || minuteOfDay <= end
}
