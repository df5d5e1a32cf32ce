// Package notify holds the notification sinks selected by NOTIFIER.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// LogNotifier writes notifications to the structured log. It is the
// development default and never fails.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.log.Info().
		Str("purpose", string(msg.Purpose)).
		Str("recipient", msg.Recipient).
		Str("link", msg.Link).
		Msg("notification")
	return nil
}
