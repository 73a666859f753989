package retention

import "time"

type rec struct {
	name   string
	parent string
	at     time.Time
}

func (r rec) Timestamp() time.Time { return r.at }
func (r rec) Name() string         { return r.name }
func (r rec) ParentName() string   { return r.parent }

func base(name string, at time.Time) rec { return rec{name: name, at: at} }

func incr(name, parent string, at time.Time) rec {
	return rec{name: name, parent: parent, at: at}
}

func names(records []rec) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.name)
	}
	return out
}

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

// dailyBases returns one base snapshot per day from first to last inclusive,
// named by date.
func dailyBases(first, last time.Time) []rec {
	var out []rec
	for t := first; !t.After(last); t = t.AddDate(0, 0, 1) {
		out = append(out, base(t.Format("2006-01-02"), t))
	}
	return out
}
