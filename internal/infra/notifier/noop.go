package notifier

import "context"

// NoOpNotifier drops every message. It stands in for a disabled channel.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) Notify(context.Context, Message) error {
	return nil
}
