package runtime

import (
	"context"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(_ context.Context, _ event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Channel_One_Client(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	clientID := uuid.NewString()
	channelID := domain.NewChannelID()
	sink := Sink{name: "a"}

	// Given no client is connected
	req.Empty(registry.Sessions)
	req.Empty(registry.ChannelSubscribers)

	// When a client subscribes a channel
	registry.Subscribe(clientID, channelID, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[clientID])
	req.Contains(registry.ChannelSubscribers[channelID], clientID)
	req.Equal([]Sink{sink}, asSinks(registry, channelID))
}

func TestRegistry_Subscribe_Several_Channels(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	clientID := uuid.NewString()
	room := domain.NewChannelID()
	list := domain.NewChannelID()
	sink := Sink{name: "a"}

	registry.Subscribe(clientID, room, sink)
	registry.Subscribe(clientID, list, sink)

	// When the client stops following the room
	registry.Unsubscribe(clientID, room)

	// Then the sink is kept for the list
	req.Nil(registry.GetSinksForChannel(room))
	req.Len(registry.GetSinksForChannel(list), 1)
	req.Len(registry.Sessions, 1)

	// When it stops following the list too
	registry.Unsubscribe(clientID, list)

	// Then nothing is left
	req.Empty(registry.Sessions)
	req.Empty(registry.ChannelSubscribers)
}

func TestRegistry_Unsubscribe_Client(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client1, client2 := uuid.NewString(), uuid.NewString()
	room := domain.NewChannelID()
	list := domain.NewChannelID()
	sink1, sink2 := Sink{name: "1"}, Sink{name: "2"}

	registry.Subscribe(client1, room, sink1)
	registry.Subscribe(client1, list, sink1)
	registry.Subscribe(client2, room, sink2)

	// When client1 disconnects
	registry.UnsubscribeClient(client1)

	// Then only client2 remains
	req.Len(registry.Sessions, 1)
	req.Nil(registry.GetSinksForChannel(list))
	req.Equal([]Sink{sink2}, asSinks(registry, room))
}

func TestRegistry_Remove_Channel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client1, client2 := uuid.NewString(), uuid.NewString()
	room := domain.NewChannelID()
	list := domain.NewChannelID()

	registry.Subscribe(client1, room, Sink{name: "1"})
	registry.Subscribe(client2, room, Sink{name: "2"})
	registry.Subscribe(client2, list, Sink{name: "2"})

	// When the room is closed
	registry.RemoveChannel(room)

	// Then client1 follows nothing and is forgotten
	req.Nil(registry.GetSinksForChannel(room))
	req.Len(registry.Sessions, 1)
	req.Contains(registry.Sessions, client2)
}


func asSinks(r *Registry, channelID domain.ChannelID) []Sink {
	var res []Sink
	for _, s := range r.GetSinksForChannel(channelID) {
		res = append(res, s.(Sink))
	}
	return res
}
