package notification

import (
	"context"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
)

// Dispatcher fans a newly created alert out to caretaker channels.
// It is invoked exactly once per created alert.
type Dispatcher interface {
	Dispatch(alert *alert.Alert)
}

// Sender delivers a rendered message over a specific channel
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Channel() Channel
}
