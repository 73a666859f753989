package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func days(ds ...int) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = day(d).Format(time.RFC3339)
	}
	return out
}

// listJSON renders `pbm -o json list` output with one base snapshot per day
// from Jan 20 to Jan 31 2024 and PITR coverage from Jan 15.
func listJSON() string {
	var snaps []string
	for d := 20; d <= 31; d++ {
		snaps = append(snaps, fmt.Sprintf(`{"name":%q,"status":"done","type":"logical","completeTS":%d}`,
			day(d).Format(time.RFC3339), day(d).Unix()))
	}
	return fmt.Sprintf(`{"snapshots":[%s],"pitr":{"on":true,"ranges":[{"range":{"start":%d,"end":%d}}]}}`,
		strings.Join(snaps, ","), day(15).Unix(), day(31).Unix())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}
