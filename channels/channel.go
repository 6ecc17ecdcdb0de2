// Package channels holds the channel kinds of a session. Each kind owns a
// membership.Group and is that group's ChannelCapability.
package channels

import (
	"context"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/membership"
)

type Channel interface {
	contract.ChannelCapability
	ID() domain.ChannelID
	Kind() domain.ChannelKind
	// Target is the room or list handle the channel was opened for.
	Target() (domain.HandleType, domain.Handle)
	Group() *membership.Group
	Close(ctx context.Context) error
}

// OpenChannelKey is the per-handle data key under which a room or list
// handle records the channel opened for it.
type OpenChannelKey struct{}
