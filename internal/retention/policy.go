package retention

import (
	"fmt"
	"time"
)

// Record is anything the selector can reason about. ParentName returns ""
// for a base snapshot and the name of the snapshot it depends on otherwise.
type Record interface {
	Timestamp() time.Time
	Name() string
	ParentName() string
}

// Policy holds the number of buckets to retain per granularity.
type Policy struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Weeks  int `json:"weeks"`
	Days   int `json:"days"`

	// Now is the reference instant for ages. Zero means time.Now().
	Now time.Time `json:"now,omitempty"`
}

// Validate rejects negative counts.
func (p Policy) Validate() error {
	for _, c := range []struct {
		name  string
		count int
	}{
		{"years", p.Years},
		{"months", p.Months},
		{"weeks", p.Weeks},
		{"days", p.Days},
	} {
		if c.count < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidPolicy, c.name, c.count)
		}
	}
	return nil
}

func (p Policy) now() time.Time {
	if p.Now.IsZero() {
		return time.Now()
	}
	return p.Now
}

func (p Policy) String() string {
	return fmt.Sprintf("days=%d weeks=%d months=%d years=%d", p.Days, p.Weeks, p.Months, p.Years)
}
