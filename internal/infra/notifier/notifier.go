// Package notifier posts rendered digests to chat webhooks (Discord, Slack).
// Each notifier applies its own rate limit and retries transient failures;
// callers only see the final error.
package notifier

import "context"

// Message is one digest to deliver. Body is plain text and may be longer
// than a single webhook message allows; notifiers split it on line breaks.
type Message struct {
	// Day is the Jalali day the digest covers (YYYY-MM-DD).
	Day   string
	Title string
	Body  string
}

// Notifier delivers a Message to one destination.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
