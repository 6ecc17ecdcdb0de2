package sink

import (
	"context"
	"log/slog"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestLogSink_Counts_By_Kind(t *testing.T) {
	req := require.New(t)
	s := NewLogSink(logs.GetLoggerFromLevel(slog.LevelDebug))
	ctx := context.Background()
	channelID := domain.NewChannelID()

	req.NoError(s.Consume(ctx, event.MembersChanged{Channel: channelID, Added: []domain.Handle{1}}))
	req.NoError(s.Consume(ctx, event.MembersChanged{Channel: channelID, Removed: []domain.Handle{1}}))
	req.NoError(s.Consume(ctx, event.FlagsChanged{Channel: channelID, Added: domain.CanAdd}))
	req.NoError(s.Consume(ctx, event.ClientReleased{ClientID: "c1", References: 3}))

	req.Equal(map[string]int{
		"members_changed": 2,
		"flags_changed":   1,
		"client_released": 1,
	}, s.Counts())
}
