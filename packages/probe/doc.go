// Package probe checks that a resolved target is reachable before a suite
// runs against it.
//
// A run optionally polls the target until it answers with the expected
// status, then performs a fixed number of rate-limited attempts, checking
// the status and gjson body expectations and recording latency percentiles.
package probe
