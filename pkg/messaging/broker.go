package messaging

import "context"

// Broker is the messaging contract used to fan out appointment lifecycle
// events to interested consumers (e.g. the notification worker).
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
