package retention

import "fmt"

type chainState uint8

const (
	chainUnknown chainState = iota
	chainVisiting
	chainComplete
	chainBroken
)

// ancestry resolves parent chains over one input set, memoizing results so
// each record is walked at most once.
type ancestry[R Record] struct {
	byName map[string]R
	state  map[string]chainState
}

func newAncestry[R Record](byName map[string]R) *ancestry[R] {
	return &ancestry[R]{
		byName: byName,
		state:  make(map[string]chainState, len(byName)),
	}
}

// complete reports whether r's chain of parents resolves to a base record.
func (a *ancestry[R]) complete(r R) (bool, error) {
	var path []string
	ok := false

walk:
	for cur := r; ; {
		name := cur.Name()
		switch a.state[name] {
		case chainComplete:
			ok = true
			break walk
		case chainBroken:
			break walk
		case chainVisiting:
			return false, fmt.Errorf("%w: %q is its own ancestor", ErrCyclicAncestry, name)
		}

		a.state[name] = chainVisiting
		path = append(path, name)

		parent := cur.ParentName()
		if parent == "" {
			ok = true
			break
		}
		next, found := a.byName[parent]
		if !found {
			break
		}
		cur = next
	}

	final := chainBroken
	if ok {
		final = chainComplete
	}
	for _, name := range path {
		a.state[name] = final
	}
	return ok, nil
}

// descendsFrom reports whether ancestor appears in r's parent chain.
// Only valid on records whose chains are already known to be complete.
func (a *ancestry[R]) descendsFrom(r R, ancestor string) bool {
	for parent := r.ParentName(); parent != ""; {
		if parent == ancestor {
			return true
		}
		next, ok := a.byName[parent]
		if !ok {
			return false
		}
		parent = next.ParentName()
	}
	return false
}

// HasCompleteAncestry reports whether record's ancestor chain resolves to a
// base record within byName. A base record is trivially complete.
func HasCompleteAncestry[R Record](record R, byName map[string]R) (bool, error) {
	return newAncestry(byName).complete(record)
}

// FilterComplete returns the records whose ancestor chain is complete,
// preserving input order.
func FilterComplete[R Record](records []R) ([]R, error) {
	complete, _, err := splitByAncestry(records, indexByName(records))
	return complete, err
}

func splitByAncestry[R Record](records []R, byName map[string]R) (complete, orphaned []R, err error) {
	a := newAncestry(byName)
	for _, r := range records {
		ok, err := a.complete(r)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			complete = append(complete, r)
		} else {
			orphaned = append(orphaned, r)
		}
	}
	return complete, orphaned, nil
}

// indexByName maps names to records; with duplicate names the last one wins.
func indexByName[R Record](records []R) map[string]R {
	byName := make(map[string]R, len(records))
	for _, r := range records {
		byName[r.Name()] = r
	}
	return byName
}
