// Package report reads stored news back out: per-day and per-agency
// groupings, highlight clusters and the plain-text digest.
package report

import "errors"

// ErrInvalidDay is returned for malformed or nonexistent Jalali day strings.
// The parse error is wrapped alongside it.
var ErrInvalidDay = errors.New("invalid day")
