// Package membership reconciles membership changes of multi-party channels.
// It never talks to the network: channel kinds inject a ChannelCapability
// for that and forward the notifications it returns.
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"presence-lab/errors"
	"presence-lab/repositories"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Notifier receives every notification a Group emits.
type Notifier func(e event.DomainEvent)

// Group is the membership state of one channel. Members, local pending and
// remote pending never share a handle.
type Group struct {
	log           *slog.Logger
	channel       domain.ChannelID
	repo          *repositories.HandleRepository
	capability    contract.ChannelCapability
	notify        Notifier
	members       *repositories.HandleSet
	localPending  *repositories.HandleSet
	remotePending *repositories.HandleSet
	actors        *repositories.HandleSet
	pendingInfo   map[domain.Handle]domain.PendingInfo
	owners        map[domain.Handle]domain.Handle
	self          domain.Handle
	flags         domain.GroupFlags
}

func NewGroup(
	log *slog.Logger,
	channel domain.ChannelID,
	repo *repositories.HandleRepository,
	self domain.Handle,
	capability contract.ChannelCapability,
	notify Notifier,
) (*Group, error) {
	g := &Group{
		log:           log.With("component", "group", "channel", string(channel)),
		channel:       channel,
		repo:          repo,
		capability:    capability,
		notify:        notify,
		members:       repositories.NewHandleSet(repo, domain.Contact),
		localPending:  repositories.NewHandleSet(repo, domain.Contact),
		remotePending: repositories.NewHandleSet(repo, domain.Contact),
		actors:        repositories.NewHandleSet(repo, domain.Contact),
		pendingInfo:   make(map[domain.Handle]domain.PendingInfo),
		owners:        make(map[domain.Handle]domain.Handle),
	}
	if err := g.SetSelfHandle(self); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) Channel() domain.ChannelID { return g.channel }

func (g *Group) SelfHandle() domain.Handle { return g.self }

func (g *Group) Flags() domain.GroupFlags { return g.flags }

func (g *Group) Members() []domain.Handle { return g.members.Snapshot() }

func (g *Group) RemotePending() []domain.Handle { return g.remotePending.Snapshot() }

func (g *Group) Actors() []domain.Handle { return g.actors.Snapshot() }

func (g *Group) IsMember(h domain.Handle) bool { return g.members.Contains(h) }

func (g *Group) IsLocalPending(h domain.Handle) bool { return g.localPending.Contains(h) }

func (g *Group) IsRemotePending(h domain.Handle) bool { return g.remotePending.Contains(h) }

// LocalPending returns every handle awaiting local approval with its info.
func (g *Group) LocalPending() []domain.LocalPendingMember {
	return lo.Map(g.localPending.Snapshot(), func(h domain.Handle, _ int) domain.LocalPendingMember {
		return domain.LocalPendingMember{Handle: h, PendingInfo: g.pendingInfo[h]}
	})
}

// SetSelfHandle swaps the handle that represents the local user. NoHandle
// is allowed while it is not known yet.
func (g *Group) SetSelfHandle(self domain.Handle) error {
	if self != domain.NoHandle {
		if err := g.repo.Ref(domain.Contact, self); err != nil {
			return err
		}
	}
	if g.self != domain.NoHandle {
		g.mustUnref(g.self)
	}
	g.self = self
	return nil
}

// Change applies a proposed change in a fixed order and emits at most one
// MembersChanged, returned as well. Every handle is checked before
// anything moves.
//
// Promotion from a pending set to members, and moves between the pending
// sets, are not reported as removals; explicit removal from a pending set
// is. The actor of an effective change joins the actor set even when it is
// removed by the same change.
func (g *Group) Change(c domain.Change) (*event.MembersChanged, error) {
	if err := g.repo.AreValid(domain.Contact, c.Handles(), false); err != nil {
		return nil, err
	}
	if c.Actor != domain.NoHandle && !g.repo.IsValid(domain.Contact, c.Actor) {
		return nil, &errors.HandleError{Err: errors.ErrInvalidHandle, Type: domain.Contact.String(), Handle: uint32(c.Actor), Index: -1}
	}
	names := g.names(append(c.Handles(), c.Actor))

	// The actor may be one of the handles removed below; keep it alive
	// until it is in the actor set.
	if c.Actor != domain.NoHandle {
		if err := g.repo.Ref(domain.Contact, c.Actor); err != nil {
			return nil, err
		}
		defer g.mustUnref(c.Actor)
	}

	// validated above, Update cannot fail from here on
	added, _ := g.members.Update(c.Add)
	removed := g.members.DifferenceUpdate(c.Remove)
	g.members.DifferenceUpdate(c.LocalPending)
	g.members.DifferenceUpdate(c.RemotePending)

	newLocal, _ := g.localPending.Update(c.LocalPending)
	for _, h := range lo.Uniq(c.LocalPending) {
		g.pendingInfo[h] = domain.PendingInfo{Actor: c.Actor, Reason: c.Reason, Message: c.Message}
	}
	g.dropPendingInfo(g.localPending.DifferenceUpdate(c.Add))
	removedLocal := g.localPending.DifferenceUpdate(c.Remove)
	g.dropPendingInfo(removedLocal)
	removed = append(removed, removedLocal...)
	g.dropPendingInfo(g.localPending.DifferenceUpdate(c.RemotePending))

	newRemote, _ := g.remotePending.Update(c.RemotePending)
	g.remotePending.DifferenceUpdate(c.Add)
	removed = append(removed, g.remotePending.DifferenceUpdate(c.Remove)...)
	g.remotePending.DifferenceUpdate(c.LocalPending)

	removed = lo.Uniq(removed)
	slices.Sort(removed)

	if len(added)+len(removed)+len(newLocal)+len(newRemote) == 0 {
		return nil, nil
	}

	for _, h := range removed {
		g.dropOwner(h)
	}
	if c.Actor != domain.NoHandle {
		if err := g.actors.Add(c.Actor); err != nil {
			return nil, err
		}
	}

	evt := event.MembersChanged{
		ID:            uuid.New(),
		Channel:       g.channel,
		Message:       c.Message,
		Added:         added,
		Removed:       removed,
		LocalPending:  newLocal,
		RemotePending: newRemote,
		Actor:         c.Actor,
		Reason:        c.Reason,
		Names:         names,
		At:            time.Now().UTC(),
	}
	g.log.Debug("Members changed",
		"added", added, "removed", removed,
		"local_pending", newLocal, "remote_pending", newRemote,
		"actor", c.Actor, "reason", c.Reason.String())
	g.emit(evt)
	return &evt, nil
}

// ChangeFlags emits only the bits that actually flipped.
func (g *Group) ChangeFlags(add, remove domain.GroupFlags) *event.FlagsChanged {
	added := add &^ g.flags
	g.flags |= added
	removed := remove & g.flags
	g.flags &^= removed

	if added == 0 && removed == 0 {
		return nil
	}
	evt := event.FlagsChanged{
		ID:      uuid.New(),
		Channel: g.channel,
		Added:   added,
		Removed: removed,
		At:      time.Now().UTC(),
	}
	g.log.Debug("Group flags changed", "added", added.String(), "removed", removed.String())
	g.emit(evt)
	return &evt
}

// AddHandleOwner maps a channel-specific handle to its global owner. Each
// side of a mapping holds one reference.
func (g *Group) AddHandleOwner(local, owner domain.Handle) error {
	if err := g.repo.AreValid(domain.Contact, []domain.Handle{local, owner}, false); err != nil {
		return err
	}
	_ = g.repo.Ref(domain.Contact, local)
	_ = g.repo.Ref(domain.Contact, owner)
	g.dropOwner(local)
	g.owners[local] = owner
	return nil
}

// HandleOwner returns NoHandle for a handle without a recorded owner.
func (g *Group) HandleOwner(local domain.Handle) domain.Handle {
	return g.owners[local]
}

// GetHandleOwners resolves members to their global owners, NoHandle where
// none is recorded. The first invalid or non-member handle fails the call.
func (g *Group) GetHandleOwners(handles []domain.Handle) ([]domain.Handle, error) {
	if !g.flags.Has(domain.ChannelSpecificHandles) {
		return nil, fmt.Errorf("%w: channel %s does not use channel-specific handles", errors.ErrNotAvailable, g.channel)
	}
	if err := g.repo.AreValid(domain.Contact, handles, false); err != nil {
		return nil, err
	}
	for i, h := range handles {
		if !g.members.Contains(h) {
			return nil, &errors.HandleError{Err: errors.ErrNotAMember, Type: domain.Contact.String(), Handle: uint32(h), Index: i}
		}
	}
	return lo.Map(handles, func(h domain.Handle, _ int) domain.Handle {
		return g.owners[h]
	}), nil
}

// AddMembers checks every handle before asking the channel kind to add
// any. Existing members are skipped; others need CanAdd unless they are
// accepting a local-pending invitation.
//
// Handles are then attempted one at a time. When the channel kind fails
// on one, the handles before it stay applied and the rest are not tried.
func (g *Group) AddMembers(ctx context.Context, handles []domain.Handle, message string) error {
	if err := g.repo.AreValid(domain.Contact, handles, false); err != nil {
		return err
	}
	toAdd := lo.Uniq(lo.Filter(handles, func(h domain.Handle, _ int) bool {
		return !g.members.Contains(h)
	}))
	for _, h := range toAdd {
		if !g.flags.Has(domain.CanAdd) && !g.localPending.Contains(h) {
			return g.denied(h, "add")
		}
	}
	for _, h := range toAdd {
		if err := g.capability.AttemptAdd(ctx, h, message); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMembers checks every handle before asking the channel kind to
// remove any. Members need CanRemove, remote pending need CanRescind, a
// local-pending invitation can always be rejected.
//
// As with AddMembers, a channel kind failing partway leaves the handles
// before the failing one removed.
func (g *Group) RemoveMembers(ctx context.Context, handles []domain.Handle, message string, reason domain.Reason) error {
	if err := g.repo.AreValid(domain.Contact, handles, false); err != nil {
		return err
	}
	toRemove := lo.Uniq(handles)
	for i, h := range toRemove {
		switch {
		case g.members.Contains(h):
			if !g.flags.Has(domain.CanRemove) {
				return g.denied(h, "remove")
			}
		case g.remotePending.Contains(h):
			if !g.flags.Has(domain.CanRescind) {
				return g.denied(h, "rescind")
			}
		case g.localPending.Contains(h):
		default:
			return &errors.HandleError{Err: errors.ErrNotAvailable, Type: domain.Contact.String(), Handle: uint32(h), Index: i}
		}
	}
	for _, h := range toRemove {
		if err := g.capability.AttemptRemove(ctx, h, message, reason); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every reference the group holds.
func (g *Group) Close() {
	g.members.Close()
	g.localPending.Close()
	g.remotePending.Close()
	clear(g.pendingInfo)
	for local := range g.owners {
		g.dropOwner(local)
	}
	g.actors.Close()
	_ = g.SetSelfHandle(domain.NoHandle)
}

func (g *Group) denied(h domain.Handle, op string) error {
	return fmt.Errorf("%w: cannot %s handle %d in channel %s (flags %s)",
		errors.ErrPermissionDenied, op, h, g.channel, g.flags)
}

func (g *Group) emit(e event.DomainEvent) {
	if g.notify != nil {
		g.notify(e)
	}
}

func (g *Group) names(handles []domain.Handle) map[domain.Handle]string {
	names := make(map[domain.Handle]string, len(handles))
	for _, h := range handles {
		if h == domain.NoHandle {
			continue
		}
		if name, err := g.repo.Inspect(domain.Contact, h); err == nil {
			names[h] = name
		}
	}
	return names
}

func (g *Group) dropPendingInfo(handles []domain.Handle) {
	for _, h := range handles {
		delete(g.pendingInfo, h)
	}
}

func (g *Group) dropOwner(local domain.Handle) {
	owner, ok := g.owners[local]
	if !ok {
		return
	}
	delete(g.owners, local)
	g.mustUnref(owner)
	g.mustUnref(local)
}

func (g *Group) mustUnref(h domain.Handle) {
	if err := g.repo.Unref(domain.Contact, h); err != nil {
		panic(err)
	}
}
