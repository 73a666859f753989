package snapshot

import (
	"encoding/json"
	"time"
)

// PITRRange is a contiguous window of oplog chunks usable for
// point-in-time recovery.
type PITRRange struct {
	Start     int64
	End       int64
	StartDate time.Time
	EndDate   time.Time
}

type pitrWire struct {
	Range struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"range"`
}

func (r *PITRRange) UnmarshalJSON(data []byte) error {
	var w pitrWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = NewPITRRange(w.Range.Start, w.Range.End)
	return nil
}

func (r PITRRange) MarshalJSON() ([]byte, error) {
	var w pitrWire
	w.Range.Start = r.Start
	w.Range.End = r.End
	return json.Marshal(w)
}

// NewPITRRange builds a range from unix seconds.
func NewPITRRange(start, end int64) PITRRange {
	return PITRRange{
		Start:     start,
		End:       end,
		StartDate: time.Unix(start, 0).UTC(),
		EndDate:   time.Unix(end, 0).UTC(),
	}
}

// StartsBefore reports whether any range has chunks older than t.
func StartsBefore(ranges []PITRRange, t time.Time) bool {
	for _, r := range ranges {
		if r.StartDate.Before(t) {
			return true
		}
	}
	return false
}
