// Package budget holds the pure budget calculations: converting recurring
// amounts to a weekly figure, aggregating a user's budget entities, matching
// free-text transaction categories to budget lines, reconciling spending per
// calendar week and summarizing transaction totals.
//
// Every function here works on in-memory snapshots and keeps no state, so it
// is safe to call from any number of goroutines.
package budget
