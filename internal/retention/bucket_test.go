package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeBuckets(t *testing.T) {
	now := date(2024, time.March, 31, 12)

	tests := []struct {
		name string
		at   time.Time
		now  time.Time
		want Buckets
	}{
		{
			name: "same instant",
			at:   now,
			now:  now,
			want: Buckets{},
		},
		{
			name: "an hour ago",
			at:   now.Add(-time.Hour),
			now:  now,
			want: Buckets{},
		},
		{
			name: "just over a day",
			at:   now.Add(-25 * time.Hour),
			now:  now,
			want: Buckets{Day: 1},
		},
		{
			name: "eight days",
			at:   now.AddDate(0, 0, -8),
			now:  now,
			want: Buckets{Day: 8, Week: 1},
		},
		{
			name: "leap day to end of march",
			at:   date(2024, time.February, 29, 12),
			now:  now,
			want: Buckets{Day: 31, Week: 4, Month: 1},
		},
		{
			name: "short month counts as a whole month",
			at:   date(2024, time.February, 1, 0),
			now:  date(2024, time.March, 1, 0),
			want: Buckets{Day: 29, Week: 4, Month: 1},
		},
		{
			name: "one second short of a month",
			at:   date(2024, time.February, 1, 0).Add(time.Second),
			now:  date(2024, time.March, 1, 0),
			want: Buckets{Day: 28, Week: 4, Month: 0},
		},
		{
			name: "exactly two years",
			at:   date(2022, time.March, 31, 12),
			now:  now,
			want: Buckets{Year: 2, Month: 24, Week: 104, Day: 731},
		},
		{
			name: "just under two years",
			at:   date(2022, time.April, 1, 12),
			now:  now,
			want: Buckets{Year: 1, Month: 23, Week: 104, Day: 730},
		},
		{
			name: "future timestamp",
			at:   now.Add(time.Hour),
			now:  now,
			want: Buckets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeBuckets(tt.at, tt.now))
		})
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{date(2023, time.January, 31, 9), 1, date(2023, time.February, 28, 9)},
		{date(2024, time.January, 31, 9), 1, date(2024, time.February, 29, 9)},
		{date(2024, time.March, 31, 9), 1, date(2024, time.April, 30, 9)},
		{date(2024, time.November, 30, 9), 3, date(2025, time.February, 28, 9)},
		{date(2024, time.May, 15, 9), 12, date(2025, time.May, 15, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.from.Format(time.DateOnly), func(t *testing.T) {
			assert.Equal(t, tt.want, addMonths(tt.from, tt.n))
		})
	}
}
