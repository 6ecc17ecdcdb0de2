package event

import (
	"presence-lab/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	ChannelID() domain.ChannelID
}

// MembersChanged is the single consolidated notification of one
// reconciliation. Names holds the interned name of every handle mentioned,
// captured before any reference was released.
type MembersChanged struct {
	ID            uuid.UUID
	Channel       domain.ChannelID
	Message       string
	Added         []domain.Handle
	Removed       []domain.Handle
	LocalPending  []domain.Handle
	RemotePending []domain.Handle
	Actor         domain.Handle
	Reason        domain.Reason
	Names         map[domain.Handle]string
	At            time.Time
}

func (m MembersChanged) ChannelID() domain.ChannelID {
	return m.Channel
}

// FlagsChanged carries only the bits that actually flipped.
type FlagsChanged struct {
	ID      uuid.UUID
	Channel domain.ChannelID
	Added   domain.GroupFlags
	Removed domain.GroupFlags
	At      time.Time
}

func (f FlagsChanged) ChannelID() domain.ChannelID {
	return f.Channel
}

// ChannelClosed is emitted once a channel released its membership state.
type ChannelClosed struct {
	ID      uuid.UUID
	Channel domain.ChannelID
	Kind    domain.ChannelKind
	At      time.Time
}

func (c ChannelClosed) ChannelID() domain.ChannelID {
	return c.Channel
}

// ClientReleased is session wide: it has no channel.
type ClientReleased struct {
	ID         uuid.UUID
	ClientID   string
	References int
	At         time.Time
}

func (c ClientReleased) ChannelID() domain.ChannelID {
	return ""
}
