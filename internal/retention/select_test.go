package retention

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectThirtyDailyBases(t *testing.T) {
	now := date(2024, time.January, 30, 0)
	records := dailyBases(date(2024, time.January, 1, 0), now)
	require.Len(t, records, 30)

	kept, err := Select(Policy{Days: 7, Weeks: 3, Months: 2, Years: 2, Now: now}, records)
	require.NoError(t, err)

	// 8 day buckets (today plus seven), the oldest record of week buckets
	// 1..3, and the single month and year bucket whose oldest member is Jan 1.
	assert.Equal(t, []string{
		"2024-01-01",
		"2024-01-03",
		"2024-01-10",
		"2024-01-17",
		"2024-01-23", "2024-01-24", "2024-01-25", "2024-01-26",
		"2024-01-27", "2024-01-28", "2024-01-29", "2024-01-30",
	}, names(kept))

	assert.Greater(t, len(kept), 8)
	assert.Less(t, len(kept), 30)
	assert.Equal(t, records[0].name, kept[0].name)
	assert.Equal(t, records[len(records)-1].name, kept[len(kept)-1].name)
}

func TestSelectPrefersDeepestIncrementalInBucket(t *testing.T) {
	now := date(2024, time.June, 1, 23)
	records := []rec{
		base("B", date(2024, time.June, 1, 10)),
		incr("I1", "B", date(2024, time.June, 1, 11)),
		incr("I2", "I1", date(2024, time.June, 1, 12)),
		incr("I3", "I2", date(2024, time.June, 1, 13)),
	}

	kept, err := Select(Policy{Now: now}, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "I1", "I2", "I3"}, names(kept))
}

func TestSelectExcludesBrokenChains(t *testing.T) {
	now := date(2024, time.June, 10, 12)
	records := []rec{
		base("B", date(2024, time.June, 8, 12)),
		incr("I", "B", date(2024, time.June, 9, 12)),
		incr("dangling", "never-listed", date(2024, time.June, 10, 9)),
		incr("dangling-child", "dangling", date(2024, time.June, 10, 10)),
	}

	plan, err := Partition(Policy{Days: 30, Weeks: 10, Months: 10, Years: 10, Now: now}, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "I"}, names(plan.Keep))
	assert.Empty(t, plan.Delete)
	assert.Equal(t, []string{"dangling", "dangling-child"}, names(plan.Orphaned))
}

func TestSelectAllZeroCountsKeepsNewestBucketOfEachGranularity(t *testing.T) {
	now := date(2024, time.January, 20, 0)
	records := dailyBases(date(2024, time.January, 11, 0), now)

	kept, err := Select(Policy{Now: now}, records)
	require.NoError(t, err)

	// day bucket 0 -> Jan 20, week bucket 0 -> its oldest member Jan 14,
	// month and year bucket 0 -> Jan 11.
	assert.Equal(t, []string{"2024-01-11", "2024-01-14", "2024-01-20"}, names(kept))
}

func TestSelectDaysZeroKeepsNewestDayPlusBoundary(t *testing.T) {
	now := date(2024, time.January, 20, 0)
	records := dailyBases(date(2024, time.January, 11, 0), now)

	zero, err := Select(Policy{Days: 0, Now: now}, records)
	require.NoError(t, err)
	one, err := Select(Policy{Days: 1, Now: now}, records)
	require.NoError(t, err)

	assert.Contains(t, names(zero), "2024-01-20")
	assert.NotContains(t, names(zero), "2024-01-19")
	assert.Contains(t, names(one), "2024-01-19")
}

// A record displaced by a better candidate in the same bucket must not keep
// occupying a slot in that granularity's window.
func TestSelectReplacementDoesNotConsumeSlot(t *testing.T) {
	now := date(2024, time.January, 10, 12)
	records := []rec{
		base("B2", date(2024, time.January, 8, 12)),
		base("B1", date(2024, time.January, 9, 10)),
		incr("I1", "B1", date(2024, time.January, 9, 11)),
		base("B0", date(2024, time.January, 10, 11)),
	}

	kept, err := Select(Policy{Days: 2, Now: now}, records)
	require.NoError(t, err)

	// Day buckets: 2 -> B2, 1 -> I1 (displaced B1), 0 -> B0. The window of
	// three buckets reaches B2; B1 comes back through I1's closure.
	assert.Equal(t, []string{"B2", "B1", "I1", "B0"}, names(kept))
}

func TestSelectIncrementalOfAnotherChainDoesNotDisplace(t *testing.T) {
	now := date(2024, time.March, 4, 23)
	records := []rec{
		base("B0", date(2024, time.March, 1, 12)),
		base("B", date(2024, time.March, 4, 10)),
		incr("I", "B0", date(2024, time.March, 4, 11)),
		incr("J", "B", date(2024, time.March, 4, 12)),
	}

	plan, err := Partition(Policy{Now: now}, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"B0", "I"}, names(plan.Keep))
	assert.Equal(t, []string{"J", "B"}, names(plan.Delete))
}

func TestSelectIsIdempotent(t *testing.T) {
	now := date(2024, time.May, 1, 6)
	policy := Policy{Days: 7, Weeks: 4, Months: 3, Years: 1, Now: now}

	datasets := map[string][]rec{
		"daily bases":      dailyBases(date(2023, time.January, 1, 0), date(2024, time.May, 1, 0)),
		"weekly chains":    weeklyChains(date(2023, time.June, 4, 0), 40),
		"incremental mess": messyChains(now),
	}

	for name, records := range datasets {
		t.Run(name, func(t *testing.T) {
			first, err := Select(policy, records)
			require.NoError(t, err)
			second, err := Select(policy, first)
			require.NoError(t, err)
			assert.Equal(t, names(first), names(second))
		})
	}
}

func TestSelectKeepsAncestorClosure(t *testing.T) {
	now := date(2024, time.May, 1, 6)
	records := weeklyChains(date(2023, time.June, 4, 0), 40)

	for _, policy := range []Policy{
		{Now: now},
		{Days: 3, Now: now},
		{Days: 7, Weeks: 4, Months: 3, Years: 1, Now: now},
		{Weeks: 52, Now: now},
	} {
		t.Run(policy.String(), func(t *testing.T) {
			kept, err := Select(policy, records)
			require.NoError(t, err)

			in := make(map[string]bool, len(kept))
			for _, r := range kept {
				in[r.name] = true
			}
			for _, r := range kept {
				if r.parent != "" {
					assert.True(t, in[r.parent], "%s kept without parent %s", r.name, r.parent)
				}
			}
		})
	}
}

func TestSelectCoverageIsMonotonic(t *testing.T) {
	now := date(2024, time.May, 1, 6)
	records := append(dailyBases(date(2021, time.March, 1, 0), date(2022, time.December, 31, 0)),
		weeklyChains(date(2023, time.January, 1, 0), 69)...)

	fields := map[string]func(*Policy, int){
		"days":   func(p *Policy, n int) { p.Days = n },
		"weeks":  func(p *Policy, n int) { p.Weeks = n },
		"months": func(p *Policy, n int) { p.Months = n },
		"years":  func(p *Policy, n int) { p.Years = n },
	}

	for field, set := range fields {
		t.Run(field, func(t *testing.T) {
			prev := map[string]bool{}
			for n := 0; n <= 12; n++ {
				policy := Policy{Days: 2, Weeks: 2, Months: 2, Years: 1, Now: now}
				set(&policy, n)

				kept, err := Select(policy, records)
				require.NoError(t, err)

				cur := make(map[string]bool, len(kept))
				for _, r := range kept {
					cur[r.name] = true
				}
				for name := range prev {
					assert.True(t, cur[name], "%s=%d dropped %s", field, n, name)
				}
				prev = cur
			}
		})
	}
}

func TestSelectMissingTimestamp(t *testing.T) {
	records := []rec{
		base("ok", date(2024, time.January, 1, 0)),
		{name: "no-time"},
	}

	kept, err := Select(Policy{Days: 1}, records)
	require.ErrorIs(t, err, ErrMissingTimestamp)
	assert.ErrorContains(t, err, "no-time")
	assert.Nil(t, kept)
}

func TestSelectRejectsNegativeCounts(t *testing.T) {
	_, err := Select(Policy{Weeks: -1}, []rec{base("a", date(2024, time.January, 1, 0))})
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestSelectEmptyInput(t *testing.T) {
	kept, err := Select(Policy{Days: 7}, []rec(nil))
	require.NoError(t, err)
	assert.Empty(t, kept)
}

func TestSelectDefaultsNowToWallClock(t *testing.T) {
	records := []rec{
		base("old", time.Now().AddDate(-3, 0, 0)),
		base("fresh", time.Now().Add(-time.Minute)),
	}

	kept, err := Select(Policy{}, records)
	require.NoError(t, err)
	assert.Contains(t, names(kept), "fresh")
}

// weeklyChains builds a base snapshot every Sunday followed by six daily
// incrementals chained onto each other.
func weeklyChains(first time.Time, weeks int) []rec {
	var out []rec
	for w := 0; w < weeks; w++ {
		start := first.AddDate(0, 0, 7*w)
		prev := fmt.Sprintf("w%02d-base", w)
		out = append(out, base(prev, start))
		for d := 1; d < 7; d++ {
			name := fmt.Sprintf("w%02d-inc%d", w, d)
			out = append(out, incr(name, prev, start.AddDate(0, 0, d)))
			prev = name
		}
	}
	return out
}

// messyChains mixes bases, incrementals, several snapshots per day and a
// broken chain.
func messyChains(now time.Time) []rec {
	var out []rec
	for d := 60; d >= 0; d-- {
		day := now.AddDate(0, 0, -d).Truncate(24 * time.Hour)
		b := fmt.Sprintf("d%02d-base", d)
		out = append(out, base(b, day.Add(time.Hour)))
		if d%3 == 0 {
			out = append(out,
				incr(fmt.Sprintf("d%02d-i1", d), b, day.Add(2*time.Hour)),
				incr(fmt.Sprintf("d%02d-i2", d), fmt.Sprintf("d%02d-i1", d), day.Add(3*time.Hour)),
			)
		}
		if d%10 == 5 {
			out = append(out, incr(fmt.Sprintf("d%02d-lost", d), "missing", day.Add(4*time.Hour)))
		}
	}
	return out
}
