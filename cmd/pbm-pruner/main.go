// pbm-pruner applies a day/week/month/year retention policy to Percona
// Backup for MongoDB snapshots and deletes what the policy does not keep.
//
// Usage:
//
//	# Show what would be deleted (dry run)
//	pbm-pruner prune
//
//	# Delete, keeping 14 daily and 8 weekly snapshots, and prune PITR chunks
//	pbm-pruner prune --days 14 --weeks 8 --pitr --force
//
//	# Run on the configured cron schedule and serve /metrics
//	pbm-pruner daemon --config /etc/pbm-pruner/config.yaml
//
//	# Evaluate a policy against a saved `pbm -o json list`
//	pbm-pruner plan --file list.json --now 2024-06-01T00:00:00Z
package main

func main() {
	Execute()
}
