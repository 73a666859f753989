package retention

import "time"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Buckets are the age bucket indexes of one record. Index 0 is the most
// recent unit; larger indexes are older.
type Buckets struct {
	Year  int
	Month int
	Week  int
	Day   int
}

// AgeBuckets computes the buckets of a record taken at t, as seen from now.
// Months and years follow the civil calendar, weeks and days are fixed
// lengths. A timestamp after now lands in bucket 0 everywhere.
func AgeBuckets(t, now time.Time) Buckets {
	t = t.In(now.Location())
	if !t.Before(now) {
		return Buckets{}
	}

	elapsed := now.Sub(t)
	months := wholeMonths(t, now)

	return Buckets{
		Year:  months / 12,
		Month: months,
		Week:  int(elapsed / week),
		Day:   int(elapsed / day),
	}
}

// wholeMonths counts complete calendar months between from and to (from <= to).
func wholeMonths(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && addMonths(from, months).After(to) {
		months--
	}
	return months
}

// addMonths adds n calendar months, clamping the day to the target month's
// length instead of overflowing into the next month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := target.Date()

	if last := daysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}
