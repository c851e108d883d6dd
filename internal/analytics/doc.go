// Package analytics is the aggregation and summary engine of the expense
// tracker. It is pure: every function takes already-loaded data plus the
// reference instant, and never performs I/O.
//
// Calendar computations (month membership, days passed, trend buckets) use
// the location of the reference instant passed as now, so callers control
// the business time zone by converting now with time.In.
package analytics
