package runtime

import (
	"presence-lab/contract"
	"presence-lab/domain"
	"sync"
)

type Set map[string]struct{}

var _ contract.IRegistry = (*Registry)(nil)

type Registry struct {
	mu                 sync.RWMutex
	Sessions           map[string]contract.EventSink // map client -> Sink
	ChannelSubscribers map[domain.ChannelID]Set      // map channel to clients
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:           make(map[string]contract.EventSink),
		ChannelSubscribers: make(map[domain.ChannelID]Set),
	}
}

// GetSinksForChannel resolves the clients following channelID into their
// sinks. A client has one sink whatever the number of channels it follows.
// Returns nil if nobody follows the channel.
func (r *Registry) GetSinksForChannel(channelID domain.ChannelID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients, ok := r.ChannelSubscribers[channelID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for clientID := range clients {
		if sink, exists := r.Sessions[clientID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers the client's sink and makes it follow channelID.
// The latest sink given for a client replaces the previous one.
func (r *Registry) Subscribe(clientID string, channelID domain.ChannelID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[clientID] = sink

	if _, ok := r.ChannelSubscribers[channelID]; !ok {
		r.ChannelSubscribers[channelID] = make(Set)
	}
	r.ChannelSubscribers[channelID][clientID] = struct{}{}
}

// Unsubscribe stops clientID following channelID. The sink is forgotten
// once the client follows nothing.
func (r *Registry) Unsubscribe(clientID string, channelID domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leave(clientID, channelID)
	if !r.follows(clientID) {
		delete(r.Sessions, clientID)
	}
}

func (r *Registry) UnsubscribeClient(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, clientID)
	for channelID := range r.ChannelSubscribers {
		r.leave(clientID, channelID)
	}
}

// RemoveChannel drops every subscription to a closed channel.
func (r *Registry) RemoveChannel(channelID domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := r.ChannelSubscribers[channelID]
	delete(r.ChannelSubscribers, channelID)
	for clientID := range clients {
		if !r.follows(clientID) {
			delete(r.Sessions, clientID)
		}
	}
}

func (r *Registry) leave(clientID string, channelID domain.ChannelID) {
	if clients, ok := r.ChannelSubscribers[channelID]; ok {
		delete(clients, clientID)
		// No empty sets left behind
		if len(clients) == 0 {
			delete(r.ChannelSubscribers, channelID)
		}
	}
}

func (r *Registry) follows(clientID string) bool {
	for _, clients := range r.ChannelSubscribers {
		if _, ok := clients[clientID]; ok {
			return true
		}
	}
	return false
}
