// Package retention decides which backup snapshots survive a tiered
// day/week/month/year retention policy.
//
// Records are bucketed by calendar-relative age. Each granularity keeps one
// representative per bucket for the newest count+1 buckets, incremental
// snapshots are preferred over base snapshots within a bucket, and every kept
// incremental pulls its whole ancestor chain into the result. Records whose
// ancestor chain is broken never take part in selection.
//
// The package is pure: no I/O, no shared state, safe for concurrent use as
// long as each caller owns its input slice.
package retention
