package channels

import (
	"context"
	"fmt"
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/errors"
	"presence-lab/membership"
	"presence-lab/repositories"
	"time"
)

type roomState int

const (
	roomIdle roomState = iota
	roomJoining
	roomJoined
)

const roomFlags = domain.CanAdd | domain.CanRemove | domain.CanRescind |
	domain.MessageAdd | domain.MessageRemove | domain.ChannelSpecificHandles

var _ Channel = (*RoomChannel)(nil)

// RoomChannel is a multi-user chat. Participants are channel-specific
// contact handles named "room/nick", mapped to their global contact when
// it is known.
type RoomChannel struct {
	log         *slog.Logger
	id          domain.ChannelID
	repo        *repositories.HandleRepository
	outbox      contract.Outbox
	scheduler   contract.Scheduler
	joinTimeout time.Duration
	room        domain.Handle
	roomName    string
	nick        string
	owner       domain.Handle
	group       *membership.Group
	state       roomState
	joinTimer   contract.Timer
}

// NewRoomChannel opens a room for the local user owner, who appears in it
// as nick. Nothing is sent until self is added.
func NewRoomChannel(
	log *slog.Logger,
	id domain.ChannelID,
	repo *repositories.HandleRepository,
	outbox contract.Outbox,
	scheduler contract.Scheduler,
	roomName string,
	owner domain.Handle,
	nick string,
	joinTimeout time.Duration,
	notify membership.Notifier,
) (*RoomChannel, error) {
	if nick == "" {
		return nil, fmt.Errorf("%w: empty nick", errors.ErrInvalidArgument)
	}
	if err := repo.Ref(domain.Contact, owner); err != nil {
		return nil, err
	}
	room, err := repo.Ensure(domain.Room, roomName)
	if err != nil {
		_ = repo.Unref(domain.Contact, owner)
		return nil, err
	}
	roomName, _ = repo.Inspect(domain.Room, room)
	c := &RoomChannel{
		log:         log.With("component", "room_channel", "room", roomName),
		id:          id,
		repo:        repo,
		outbox:      outbox,
		scheduler:   scheduler,
		joinTimeout: joinTimeout,
		room:        room,
		roomName:    roomName,
		nick:        nick,
		owner:       owner,
	}

	self, err := repo.Ensure(domain.Contact, c.participantName(nick))
	if err != nil {
		c.release()
		return nil, err
	}
	defer func() { _ = repo.Unref(domain.Contact, self) }()

	c.group, err = membership.NewGroup(log, id, repo, self, c, notify)
	if err != nil {
		c.release()
		return nil, err
	}
	if err = c.group.AddHandleOwner(self, owner); err != nil {
		c.group.Close()
		c.release()
		return nil, err
	}
	c.group.ChangeFlags(roomFlags, 0)
	return c, nil
}

func (c *RoomChannel) ID() domain.ChannelID { return c.id }

func (c *RoomChannel) Kind() domain.ChannelKind { return domain.RoomChannelKind }

func (c *RoomChannel) Target() (domain.HandleType, domain.Handle) { return domain.Room, c.room }

func (c *RoomChannel) Group() *membership.Group { return c.group }

func (c *RoomChannel) Joined() bool { return c.state == roomJoined }

func (c *RoomChannel) participantName(nick string) string {
	return c.roomName + "/" + nick
}

// AttemptAdd joins the room for self and invites anyone else.
func (c *RoomChannel) AttemptAdd(ctx context.Context, h domain.Handle, message string) error {
	self := c.group.SelfHandle()
	if h == self {
		return c.join(ctx)
	}

	invitee, err := c.repo.Inspect(domain.Contact, h)
	if err != nil {
		return err
	}
	if owner := c.group.HandleOwner(h); owner != domain.NoHandle {
		invitee, _ = c.repo.Inspect(domain.Contact, owner)
	}
	if err = c.outbox.Invite(ctx, c.roomName, invitee, message); err != nil {
		return fmt.Errorf("inviting %s to %s: %w", invitee, c.roomName, err)
	}
	_, err = c.group.Change(domain.Change{
		RemotePending: []domain.Handle{h},
		Actor:         self,
		Reason:        domain.ReasonInvited,
		Message:       message,
	})
	return err
}

// AttemptRemove leaves or declines for self and rescinds invitations for
// anyone else. Other participants cannot be kicked.
func (c *RoomChannel) AttemptRemove(ctx context.Context, h domain.Handle, message string, reason domain.Reason) error {
	self := c.group.SelfHandle()
	if h == self {
		if c.state != roomIdle {
			if err := c.outbox.Leave(ctx, c.roomName, c.nick, message); err != nil {
				return fmt.Errorf("leaving %s: %w", c.roomName, err)
			}
		}
		c.cancelJoinTimer()
		c.state = roomIdle
		_, err := c.group.Change(domain.Change{Remove: []domain.Handle{self}, Actor: self, Reason: reason, Message: message})
		return err
	}
	if !c.group.IsRemotePending(h) {
		return fmt.Errorf("%w: cannot kick participants of %s", errors.ErrNotAvailable, c.roomName)
	}
	_, err := c.group.Change(domain.Change{Remove: []domain.Handle{h}, Actor: self, Reason: reason, Message: message})
	return err
}

func (c *RoomChannel) join(ctx context.Context) error {
	if c.state != roomIdle {
		return nil
	}
	if err := c.outbox.Join(ctx, c.roomName, c.nick); err != nil {
		return fmt.Errorf("joining %s: %w", c.roomName, err)
	}
	self := c.group.SelfHandle()
	// leaving dropped the mapping along with self
	if err := c.group.AddHandleOwner(self, c.owner); err != nil {
		return err
	}
	if _, err := c.group.Change(domain.Change{RemotePending: []domain.Handle{self}, Actor: self}); err != nil {
		return err
	}
	c.state = roomJoining
	c.joinTimer = c.scheduler.AfterFunc(c.joinTimeout, c.joinTimedOut)
	return nil
}

func (c *RoomChannel) cancelJoinTimer() {
	if c.joinTimer != nil {
		c.joinTimer.Stop()
		c.joinTimer = nil
	}
}

func (c *RoomChannel) joinTimedOut() {
	if c.state != roomJoining {
		return
	}
	c.joinTimer = nil
	c.state = roomIdle
	c.log.Warn("Join not confirmed in time", "timeout", c.joinTimeout)
	self := c.group.SelfHandle()
	if _, err := c.group.Change(domain.Change{Remove: []domain.Handle{self}, Reason: domain.ReasonNoAnswer}); err != nil {
		c.log.Error("Cannot drop self after join timeout", "error", err)
	}
}

// JoinConfirmed is called when the room acknowledged our presence. A late
// confirmation, after the timeout fired, is ignored.
func (c *RoomChannel) JoinConfirmed() error {
	if c.state != roomJoining {
		c.log.Debug("Ignoring join confirmation", "state", c.state)
		return nil
	}
	c.cancelJoinTimer()
	c.state = roomJoined
	self := c.group.SelfHandle()
	_, err := c.group.Change(domain.Change{Add: []domain.Handle{self}, Actor: self})
	return err
}

// ParticipantJoined adds nick; ownerName, if known, becomes the owner of
// the participant handle and settles a pending invitation sent to it.
func (c *RoomChannel) ParticipantJoined(nick, ownerName string) (domain.Handle, error) {
	h, err := c.repo.Ensure(domain.Contact, c.participantName(nick))
	if err != nil {
		return domain.NoHandle, err
	}
	defer func() { _ = c.repo.Unref(domain.Contact, h) }()

	change := domain.Change{Add: []domain.Handle{h}}
	if ownerName != "" {
		owner, err := c.repo.Ensure(domain.Contact, ownerName)
		if err != nil {
			return domain.NoHandle, err
		}
		defer func() { _ = c.repo.Unref(domain.Contact, owner) }()
		if err = c.group.AddHandleOwner(h, owner); err != nil {
			return domain.NoHandle, err
		}
		if c.group.IsRemotePending(owner) {
			change.Remove = []domain.Handle{owner}
		}
	}
	if _, err = c.group.Change(change); err != nil {
		return domain.NoHandle, err
	}
	return h, nil
}

func (c *RoomChannel) ParticipantLeft(nick, message string, reason domain.Reason) error {
	h, err := c.repo.Lookup(domain.Contact, c.participantName(nick))
	if err != nil {
		// never seen
		return nil
	}
	_, err = c.group.Change(domain.Change{Remove: []domain.Handle{h}, Reason: reason, Message: message})
	return err
}

// InvitationReceived puts self in local pending on behalf of inviter.
func (c *RoomChannel) InvitationReceived(inviterName, message string) error {
	inviter, err := c.repo.Ensure(domain.Contact, inviterName)
	if err != nil {
		return err
	}
	defer func() { _ = c.repo.Unref(domain.Contact, inviter) }()

	if c.state != roomIdle {
		return nil
	}
	_, err = c.group.Change(domain.Change{
		LocalPending: []domain.Handle{c.group.SelfHandle()},
		Actor:        inviter,
		Reason:       domain.ReasonInvited,
		Message:      message,
	})
	return err
}

// Close leaves the room if needed and releases every handle.
func (c *RoomChannel) Close(ctx context.Context) error {
	var err error
	if c.state != roomIdle {
		err = c.outbox.Leave(ctx, c.roomName, c.nick, "")
	}
	c.cancelJoinTimer()
	c.state = roomIdle
	c.group.Close()
	c.release()
	return err
}

func (c *RoomChannel) release() {
	if err := c.repo.Unref(domain.Room, c.room); err != nil {
		panic(err)
	}
	if err := c.repo.Unref(domain.Contact, c.owner); err != nil {
		panic(err)
	}
}
