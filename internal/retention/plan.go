package retention

import (
	"fmt"
	"slices"
	"time"
)

// Plan splits an input set into what to keep, what to delete and what was
// excluded because its ancestor chain is broken.
type Plan[R Record] struct {
	// Keep is sorted oldest to newest.
	Keep []R
	// Delete holds the complete-chain records that are not kept, newest
	// first, so incrementals are removed before the snapshots they build on.
	Delete []R
	// Orphaned holds records whose ancestor chain is broken, in input order.
	Orphaned []R
}

// Partition runs the selector and also returns its complement.
func Partition[R Record](policy Policy, records []R) (Plan[R], error) {
	if err := policy.Validate(); err != nil {
		return Plan[R]{}, err
	}
	if err := checkTimestamps(records); err != nil {
		return Plan[R]{}, err
	}

	byName := indexByName(records)
	complete, orphaned, err := splitByAncestry(records, byName)
	if err != nil {
		return Plan[R]{}, err
	}

	kept := selectKept(policy, complete, newAncestry(indexByName(complete)))

	keep := make(map[string]bool, len(kept))
	for _, r := range kept {
		keep[r.Name()] = true
	}

	var del []R
	for _, r := range complete {
		if !keep[r.Name()] {
			del = append(del, r)
		}
	}
	slices.Reverse(del)

	return Plan[R]{Keep: kept, Delete: del, Orphaned: orphaned}, nil
}

// CutoffMode selects how far back point-in-time-recovery chunks may go.
type CutoffMode string

const (
	// CutoffOldest prunes PITR chunks older than the oldest kept snapshot.
	CutoffOldest CutoffMode = "oldest"
	// CutoffSuccessor prunes up to the snapshot after the oldest kept one,
	// giving up recovery between those two snapshots.
	CutoffSuccessor CutoffMode = "successor"
)

// ParseCutoffMode parses a mode name; empty means CutoffOldest.
func ParseCutoffMode(s string) (CutoffMode, error) {
	switch CutoffMode(s) {
	case "", CutoffOldest:
		return CutoffOldest, nil
	case CutoffSuccessor:
		return CutoffSuccessor, nil
	default:
		return "", fmt.Errorf("unknown PITR cutoff mode %q (want %q or %q)", s, CutoffOldest, CutoffSuccessor)
	}
}

// PITRCutoff returns the instant before which PITR chunks are no longer
// needed, given the kept set sorted oldest to newest. It returns false when
// nothing is kept, in which case no chunk may be pruned.
func PITRCutoff[R Record](kept []R, mode CutoffMode) (time.Time, bool) {
	if len(kept) == 0 {
		return time.Time{}, false
	}
	if mode == CutoffSuccessor && len(kept) > 1 {
		return kept[1].Timestamp(), true
	}
	return kept[0].Timestamp(), true
}
