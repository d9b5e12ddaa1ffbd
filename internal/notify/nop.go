package notify

// nopNotifier discards all events. Used when Kafka is disabled and in tests.
type nopNotifier struct{}

// NewNopNotifier creates a notifier that does nothing.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Publish(Event) {}

func (nopNotifier) Close() error { return nil }
