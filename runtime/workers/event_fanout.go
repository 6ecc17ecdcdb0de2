package workers

import (
	"context"
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain/event"
	"sync"
	"time"
)

// EventFanout delivers every event to the permanent sinks and to the client
// sinks subscribed to the event's channel.
//
// Delivery is best effort: a sink that errors or outlives sinkTimeout is
// logged and skipped. Events are handled one after the other, so each sink
// sees them in emission order.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	events         <-chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry, events <-chan event.DomainEvent, sinkTimeout time.Duration, permanentSinks ...contract.EventSink) *EventFanout {
	return &EventFanout{
		log:            log.With("component", "event_fanout"),
		permanentSinks: permanentSinks,
		registry:       registry,
		events:         events,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout sends evt to every sink concurrently and waits for all of them.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append([]contract.EventSink{}, w.permanentSinks...)
	if channelID := evt.ChannelID(); channelID != "" {
		sinks = append(sinks, w.registry.GetSinksForChannel(channelID)...)
	}

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(sink contract.EventSink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := sink.Consume(sinkCtx, evt); err != nil {
				w.log.Warn("Sink did not consume event", "channel", evt.ChannelID(), "error", err)
			}
		}(sink)
	}
	wg.Wait()

	// Subscribers heard the close, nothing else will come
	if closed, ok := evt.(event.ChannelClosed); ok {
		w.registry.RemoveChannel(closed.Channel)
	}
}
