// Package ingest runs the collection pipeline: list candidates per source,
// summarize them, drop duplicates against the store and persist the rest.
package ingest

import "errors"

// Sentinel errors for ingest operations.
var (
	// ErrStoreUnavailable is returned when the preflight ping fails. It is
	// the only store failure that aborts a whole run.
	ErrStoreUnavailable = errors.New("news store unavailable")

	// ErrNoSources is returned when a run selects no enabled source.
	ErrNoSources = errors.New("no sources selected")
)
