package sink

import (
	"context"
	"fmt"
	"log/slog"
	"presence-lab/domain/event"
	"sync"
)

// LogSink writes one audit line per event and counts events by kind.
type LogSink struct {
	log    *slog.Logger
	mu     sync.Mutex
	counts map[string]int
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "audit"), counts: make(map[string]int)}
}

func (s *LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt := e.(type) {
	case event.MembersChanged:
		s.counts["members_changed"]++
		s.log.Info("Members changed",
			"channel", evt.Channel,
			"added", len(evt.Added),
			"removed", len(evt.Removed),
			"local_pending", len(evt.LocalPending),
			"remote_pending", len(evt.RemotePending),
			"reason", evt.Reason.String())
	case event.FlagsChanged:
		s.counts["flags_changed"]++
		s.log.Debug("Flags changed", "channel", evt.Channel, "added", evt.Added.String(), "removed", evt.Removed.String())
	case event.ChannelClosed:
		s.counts["channel_closed"]++
		s.log.Info("Channel closed", "channel", evt.Channel, "kind", evt.Kind)
	case event.ClientReleased:
		s.counts["client_released"]++
		s.log.Info("Client released", "client", evt.ClientID, "references", evt.References)
	default:
		s.log.Debug(fmt.Sprintf("Not implemented event : %T", evt))
	}
	return nil
}

// Counts returns a copy of the per-kind counters.
func (s *LogSink) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		res[k] = v
	}
	return res
}
