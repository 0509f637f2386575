// Package report persists batch run history so an archivist can audit
// which tracks a pass changed and why files were skipped.
//
// Classification itself is recomputed from scratch on every run; the
// store is an audit trail, not an input to future decisions.
package report
