package subscription

import "time"

// AddDuration advances t by n calendar units. Month and year additions use
// time.AddDate, which normalizes overflow: Jan 31 + 1 month lands in early
// March, not on Feb's last day.
func AddDuration(t time.Time, n int, unit DurationUnit) time.Time {
	switch unit {
	case UnitDays:
		return t.AddDate(0, 0, n)
	case UnitWeeks:
		return t.AddDate(0, 0, 7*n)
	case UnitMonths:
		return t.AddDate(0, n, 0)
	case UnitYears:
		return t.AddDate(n, 0, 0)
	}
	return t
}
