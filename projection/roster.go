// Package projection builds read models from observed events.
// Does not emit events or touch session state.
package projection

import (
	"context"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// RosterEntry lists names, sorted, per membership category.
type RosterEntry struct {
	Members       []string
	LocalPending  []string
	RemotePending []string
}

type rosterSets struct {
	members       map[string]struct{}
	localPending  map[string]struct{}
	remotePending map[string]struct{}
}

func newRosterSets() *rosterSets {
	return &rosterSets{
		members:       make(map[string]struct{}),
		localPending:  make(map[string]struct{}),
		remotePending: make(map[string]struct{}),
	}
}

// move puts name in target, out of every other category.
func (r *rosterSets) move(name string, target map[string]struct{}) {
	delete(r.members, name)
	delete(r.localPending, name)
	delete(r.remotePending, name)
	if target != nil {
		target[name] = struct{}{}
	}
}

// Roster keeps, per channel, who is in which category by name. It only
// relies on the names carried by the events, so it outlives the handles.
type Roster struct {
	mu       sync.RWMutex
	channels map[domain.ChannelID]*rosterSets
}

func NewRoster() *Roster {
	return &Roster{channels: make(map[domain.ChannelID]*rosterSets)}
}

func (r *Roster) Consume(_ context.Context, e event.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch evt := e.(type) {
	case event.MembersChanged:
		sets, ok := r.channels[evt.Channel]
		if !ok {
			sets = newRosterSets()
			r.channels[evt.Channel] = sets
		}
		apply := func(handles []domain.Handle, target map[string]struct{}) {
			for _, h := range handles {
				if name, ok := evt.Names[h]; ok {
					sets.move(name, target)
				}
			}
		}
		apply(evt.Added, sets.members)
		apply(evt.LocalPending, sets.localPending)
		apply(evt.RemotePending, sets.remotePending)
		// a handle both added and removed by one change ends up absent
		apply(evt.Removed, nil)
	case event.ChannelClosed:
		delete(r.channels, evt.Channel)
	}
	return nil
}

func (r *Roster) Entry(channelID domain.ChannelID) (RosterEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets, ok := r.channels[channelID]
	if !ok {
		return RosterEntry{}, false
	}
	return RosterEntry{
		Members:       sorted(sets.members),
		LocalPending:  sorted(sets.localPending),
		RemotePending: sorted(sets.remotePending),
	}, true
}

func sorted(set map[string]struct{}) []string {
	names := lo.Keys(set)
	slices.Sort(names)
	return names
}
