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
)

var listFlags = map[string]domain.GroupFlags{
	domain.ListPublish:   domain.CanAdd | domain.CanRemove | domain.MessageRemove,
	domain.ListSubscribe: domain.CanAdd | domain.CanRemove | domain.CanRescind | domain.MessageAdd,
	domain.ListKnown:     domain.CanAdd | domain.CanRemove,
}

var _ Channel = (*ListChannel)(nil)

// ListChannel is one of the contact lists: publish holds who may see our
// presence, subscribe whose presence we see, known everyone we track.
type ListChannel struct {
	log    *slog.Logger
	id     domain.ChannelID
	repo   *repositories.HandleRepository
	outbox contract.Outbox
	list   domain.Handle
	name   string
	group  *membership.Group
}

func NewListChannel(
	log *slog.Logger,
	id domain.ChannelID,
	repo *repositories.HandleRepository,
	outbox contract.Outbox,
	listName string,
	self domain.Handle,
	notify membership.Notifier,
) (*ListChannel, error) {
	list, err := repo.Intern(domain.List, listName)
	if err != nil {
		return nil, err
	}
	c := &ListChannel{
		log:    log.With("component", "list_channel", "list", listName),
		id:     id,
		repo:   repo,
		outbox: outbox,
		list:   list,
		name:   listName,
	}
	c.group, err = membership.NewGroup(log, id, repo, self, c, notify)
	if err != nil {
		return nil, err
	}
	c.group.ChangeFlags(listFlags[listName], 0)
	return c, nil
}

func (c *ListChannel) ID() domain.ChannelID { return c.id }

func (c *ListChannel) Kind() domain.ChannelKind { return domain.ListChannelKind }

func (c *ListChannel) Target() (domain.HandleType, domain.Handle) { return domain.List, c.list }

func (c *ListChannel) Group() *membership.Group { return c.group }

func (c *ListChannel) Name() string { return c.name }

func (c *ListChannel) AttemptAdd(ctx context.Context, h domain.Handle, message string) error {
	contact, err := c.repo.Inspect(domain.Contact, h)
	if err != nil {
		return err
	}
	self := c.group.SelfHandle()
	switch c.name {
	case domain.ListSubscribe:
		if err = c.outbox.RequestSubscription(ctx, contact, message); err != nil {
			return fmt.Errorf("requesting subscription to %s: %w", contact, err)
		}
		_, err = c.group.Change(domain.Change{RemotePending: []domain.Handle{h}, Actor: self, Message: message})
	case domain.ListPublish:
		if err = c.outbox.AuthorizeSubscription(ctx, contact); err != nil {
			return fmt.Errorf("authorizing %s: %w", contact, err)
		}
		_, err = c.group.Change(domain.Change{Add: []domain.Handle{h}, Actor: self, Message: message})
	default:
		_, err = c.group.Change(domain.Change{Add: []domain.Handle{h}, Actor: self, Message: message})
	}
	return err
}

func (c *ListChannel) AttemptRemove(ctx context.Context, h domain.Handle, message string, reason domain.Reason) error {
	contact, err := c.repo.Inspect(domain.Contact, h)
	if err != nil {
		return err
	}
	if c.name != domain.ListKnown {
		if err = c.outbox.CancelSubscription(ctx, contact); err != nil {
			return fmt.Errorf("cancelling subscription of %s: %w", contact, err)
		}
	}
	_, err = c.group.Change(domain.Change{Remove: []domain.Handle{h}, Actor: c.group.SelfHandle(), Reason: reason, Message: message})
	return err
}

// SubscriptionRequested asks local approval for contactName to see our
// presence.
func (c *ListChannel) SubscriptionRequested(contactName, message string) (domain.Handle, error) {
	if c.name != domain.ListPublish {
		return domain.NoHandle, fmt.Errorf("%w: subscription requests only reach %s", errors.ErrNotAvailable, domain.ListPublish)
	}
	return c.inbound(contactName, func(h domain.Handle) domain.Change {
		return domain.Change{LocalPending: []domain.Handle{h}, Actor: h, Message: message}
	})
}

// SubscriptionAccepted settles a subscription request we sent.
func (c *ListChannel) SubscriptionAccepted(contactName string) (domain.Handle, error) {
	if c.name != domain.ListSubscribe {
		return domain.NoHandle, fmt.Errorf("%w: acceptances only reach %s", errors.ErrNotAvailable, domain.ListSubscribe)
	}
	return c.inbound(contactName, func(h domain.Handle) domain.Change {
		return domain.Change{Add: []domain.Handle{h}, Actor: h}
	})
}

// SubscriptionRemoved drops contactName, whatever its category.
func (c *ListChannel) SubscriptionRemoved(contactName string) error {
	h, err := c.repo.Lookup(domain.Contact, contactName)
	if err != nil {
		return nil
	}
	_, err = c.group.Change(domain.Change{Remove: []domain.Handle{h}, Actor: h, Reason: domain.ReasonNone})
	return err
}

func (c *ListChannel) inbound(contactName string, change func(h domain.Handle) domain.Change) (domain.Handle, error) {
	h, err := c.repo.Ensure(domain.Contact, contactName)
	if err != nil {
		return domain.NoHandle, err
	}
	defer func() { _ = c.repo.Unref(domain.Contact, h) }()
	if _, err = c.group.Change(change(h)); err != nil {
		return domain.NoHandle, err
	}
	return h, nil
}

func (c *ListChannel) Close(_ context.Context) error {
	c.group.Close()
	return nil
}
