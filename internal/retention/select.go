package retention

import (
	"fmt"
	"slices"
)

// granularity collects one representative per bucket index. order holds
// the representatives in the order their buckets were first seen, which for
// oldest-to-newest input is oldest bucket first.
type granularity[R Record] struct {
	count int
	slot  map[int]int
	order []R
}

func newGranularity[R Record](count int) *granularity[R] {
	return &granularity[R]{count: count, slot: make(map[int]int)}
}

// offer proposes r for bucket. A replacement overwrites the representative
// in place, so a displaced record never occupies a retention slot.
func (g *granularity[R]) offer(bucket int, r R, better func(existing, candidate R) bool) {
	i, ok := g.slot[bucket]
	if !ok {
		g.slot[bucket] = len(g.order)
		g.order = append(g.order, r)
		return
	}
	if better(g.order[i], r) {
		g.order[i] = r
	}
}

// newest returns the representatives of the newest count+1 buckets. The
// extra bucket keeps the snapshot just outside the window so recovery
// coverage has no gap at the edge.
func (g *granularity[R]) newest() []R {
	n := min(g.count+1, len(g.order))
	return g.order[len(g.order)-n:]
}

// Select returns the records to keep under policy, sorted oldest to newest.
//
// records must be sorted oldest to newest. Records with a broken ancestor
// chain are ignored entirely. The result is closed under ancestry: every kept
// incremental has its parent kept as well.
func Select[R Record](policy Policy, records []R) ([]R, error) {
	plan, err := Partition(policy, records)
	if err != nil {
		return nil, err
	}
	return plan.Keep, nil
}

func selectKept[R Record](policy Policy, records []R, a *ancestry[R]) []R {
	now := policy.now()

	years := newGranularity[R](policy.Years)
	months := newGranularity[R](policy.Months)
	weeks := newGranularity[R](policy.Weeks)
	days := newGranularity[R](policy.Days)

	better := func(existing, candidate R) bool {
		return preferCandidate(existing, candidate, a)
	}

	for _, r := range records {
		b := AgeBuckets(r.Timestamp(), now)
		years.offer(b.Year, r, better)
		months.offer(b.Month, r, better)
		weeks.offer(b.Week, r, better)
		days.offer(b.Day, r, better)
	}

	seen := make(map[string]bool)
	var kept []R
	keep := func(r R) {
		if !seen[r.Name()] {
			seen[r.Name()] = true
			kept = append(kept, r)
		}
	}

	for _, g := range []*granularity[R]{years, months, weeks, days} {
		for _, r := range g.newest() {
			keep(r)
		}
	}

	// Ancestor closure. kept grows while it is scanned, which walks chains
	// of any depth.
	for i := 0; i < len(kept); i++ {
		parent := kept[i].ParentName()
		if parent == "" || seen[parent] {
			continue
		}
		if p, ok := a.byName[parent]; ok {
			keep(p)
		}
	}

	sortByTime(kept)
	return kept
}

// preferCandidate decides whether candidate should displace the current
// representative of a bucket. An incremental displaces a base snapshot, and
// a deeper incremental displaces one of its own ancestors; both keep the
// displaced record through ancestor closure.
func preferCandidate[R Record](existing, candidate R, a *ancestry[R]) bool {
	if candidate.ParentName() == "" {
		return false
	}
	if existing.ParentName() == "" {
		return true
	}
	return a.descendsFrom(candidate, existing.Name())
}

func checkTimestamps[R Record](records []R) error {
	for i, r := range records {
		if r.Timestamp().IsZero() {
			return fmt.Errorf("%w: record %d (%q)", ErrMissingTimestamp, i, r.Name())
		}
	}
	return nil
}

func sortByTime[R Record](records []R) {
	slices.SortStableFunc(records, func(x, y R) int {
		return x.Timestamp().Compare(y.Timestamp())
	})
}
