package channels

import (
	"context"
	"log/slog"
	"presence-lab/contract"
)

var _ contract.Outbox = LogOutbox{}

// LogOutbox stands in for a wire connection: it records what would be
// sent and always succeeds.
type LogOutbox struct {
	Log *slog.Logger
}

func (o LogOutbox) Join(_ context.Context, room, nick string) error {
	o.Log.Info("Join", "room", room, "nick", nick)
	return nil
}

func (o LogOutbox) Leave(_ context.Context, room, nick, message string) error {
	o.Log.Info("Leave", "room", room, "nick", nick, "message", message)
	return nil
}

func (o LogOutbox) Invite(_ context.Context, room, contact, message string) error {
	o.Log.Info("Invite", "room", room, "contact", contact, "message", message)
	return nil
}

func (o LogOutbox) RequestSubscription(_ context.Context, contact, message string) error {
	o.Log.Info("Request subscription", "contact", contact, "message", message)
	return nil
}

func (o LogOutbox) AuthorizeSubscription(_ context.Context, contact string) error {
	o.Log.Info("Authorize subscription", "contact", contact)
	return nil
}

func (o LogOutbox) CancelSubscription(_ context.Context, contact string) error {
	o.Log.Info("Cancel subscription", "contact", contact)
	return nil
}
