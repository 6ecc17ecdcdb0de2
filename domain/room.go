package domain

import "github.com/google/uuid"

// ChannelID identifies an open channel within a session.
type ChannelID string

func NewChannelID() ChannelID {
	return ChannelID(uuid.NewString())
}

type ChannelKind string

const (
	RoomChannelKind ChannelKind = "room"
	ListChannelKind ChannelKind = "list"
)
