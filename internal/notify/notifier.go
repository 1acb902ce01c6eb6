// Package notify delivers trade alerts to chat services. Delivery is
// fire-and-forget from the trading core's point of view: a failed send is
// logged and never affects a decision.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const sendTimeout = 10 * time.Second

// Sender delivers one formatted message to a single destination.
type Sender interface {
	Name() string
	Send(ctx context.Context, title, message string) error
}

// Dispatcher fans an event out to every configured sender, subject to the
// event filter. It satisfies the trading core's Notifier interface.
type Dispatcher struct {
	senders []Sender
	// events is the allow-list; empty means deliver everything.
	events map[string]struct{}
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher. events lists the event kinds to deliver
// ("buy", "take_profit", "stop_loss", "error"); nil or empty delivers all.
func NewDispatcher(events []string, logger *slog.Logger, senders ...Sender) *Dispatcher {
	var filter map[string]struct{}
	if len(events) > 0 {
		filter = make(map[string]struct{}, len(events))
		for _, ev := range events {
			filter[strings.ToLower(ev)] = struct{}{}
		}
	}
	return &Dispatcher{
		senders: senders,
		events:  filter,
		logger:  logger.With(slog.String("component", "notify")),
	}
}

// Notify sends the event to every sender that accepts it. It returns an
// error only when every sender failed, so a single broken webhook does not
// mute the rest.
func (d *Dispatcher) Notify(ctx context.Context, event, title, message string) error {
	if len(d.senders) == 0 {
		return nil
	}
	if d.events != nil {
		if _, ok := d.events[strings.ToLower(event)]; !ok {
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	failures := 0
	for _, s := range d.senders {
		if err := s.Send(ctx, title, message); err != nil {
			failures++
			d.logger.WarnContext(ctx, "notification delivery failed",
				slog.String("sender", s.Name()),
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}
	if failures == len(d.senders) {
		return fmt.Errorf("notify: all %d senders failed for event %s", failures, event)
	}
	return nil
}
