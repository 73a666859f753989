package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCoversEveryRecordOnce(t *testing.T) {
	now := date(2024, time.May, 1, 6)
	records := messyChains(now)

	plan, err := Partition(Policy{Days: 5, Weeks: 2, Months: 1, Now: now}, records)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, group := range [][]rec{plan.Keep, plan.Delete, plan.Orphaned} {
		for _, r := range group {
			seen[r.name]++
		}
	}
	assert.Len(t, seen, len(records))
	for name, n := range seen {
		assert.Equal(t, 1, n, "%s appears %d times", name, n)
	}
}

func TestPartitionDeletesNewestFirst(t *testing.T) {
	now := date(2024, time.January, 30, 0)
	records := dailyBases(date(2024, time.January, 1, 0), now)

	plan, err := Partition(Policy{Days: 2, Now: now}, records)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Delete)

	for i := 1; i < len(plan.Delete); i++ {
		assert.True(t, plan.Delete[i-1].at.After(plan.Delete[i].at))
	}
}

func TestPITRCutoff(t *testing.T) {
	kept := []rec{
		base("a", date(2024, time.January, 1, 0)),
		base("b", date(2024, time.January, 8, 0)),
		base("c", date(2024, time.January, 9, 0)),
	}

	tests := []struct {
		name   string
		kept   []rec
		mode   CutoffMode
		want   time.Time
		wantOK bool
	}{
		{"oldest", kept, CutoffOldest, kept[0].at, true},
		{"successor", kept, CutoffSuccessor, kept[1].at, true},
		{"successor of a single snapshot", kept[:1], CutoffSuccessor, kept[0].at, true},
		{"nothing kept", nil, CutoffOldest, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PITRCutoff(tt.kept, tt.mode)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCutoffMode(t *testing.T) {
	for in, want := range map[string]CutoffMode{
		"":          CutoffOldest,
		"oldest":    CutoffOldest,
		"successor": CutoffSuccessor,
	} {
		got, err := ParseCutoffMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCutoffMode("newest")
	assert.Error(t, err)
}
