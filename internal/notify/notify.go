package notify

import (
	"context"

	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/logger"
)

// Tags classify outgoing notifications.
const (
	TagSignal = "signal"
	TagError  = "error"
	TagInfo   = "info"
)

// Notifier fans a message out to every configured channel. Channels are
// independently best-effort: one failing delivery never blocks the
// rest.
type Notifier struct {
	channels []interfaces.Channel
}

func New(channels ...interfaces.Channel) *Notifier {
	return &Notifier{channels: channels}
}

// Send delivers the message to all channels and reports how many
// deliveries succeeded.
func (n *Notifier) Send(ctx context.Context, tag, message string) int {
	delivered := 0
	for _, ch := range n.channels {
		if err := ch.Send(ctx, tag, message); err != nil {
			logger.Warn(ctx, "Notification channel failed",
				"channel", ch.Name(),
				"tag", tag,
				"error", err.Error())
			continue
		}
		delivered++
	}
	return delivered
}

// Channels returns the number of configured channels.
func (n *Notifier) Channels() int {
	return len(n.channels)
}
