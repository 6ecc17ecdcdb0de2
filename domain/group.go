package domain

import (
	"strings"
)

// GroupFlags advertise what a channel lets its user do with membership.
type GroupFlags uint32

const (
	CanAdd GroupFlags = 1 << iota
	CanRemove
	CanRescind
	MessageAdd
	MessageRemove
	MessageAccept
	MessageReject
	MessageRescind
	ChannelSpecificHandles
	OnlyOneGroup
	HandleOwnersNotAvailable
)

var flagNames = []struct {
	flag GroupFlags
	name string
}{
	{CanAdd, "can-add"},
	{CanRemove, "can-remove"},
	{CanRescind, "can-rescind"},
	{MessageAdd, "message-add"},
	{MessageRemove, "message-remove"},
	{MessageAccept, "message-accept"},
	{MessageReject, "message-reject"},
	{MessageRescind, "message-rescind"},
	{ChannelSpecificHandles, "channel-specific-handles"},
	{OnlyOneGroup, "only-one-group"},
	{HandleOwnersNotAvailable, "handle-owners-not-available"},
}

func (f GroupFlags) Has(flag GroupFlags) bool {
	return f&flag == flag
}

func (f GroupFlags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Change is a proposed membership update for one group. Every handle is a
// Contact handle; Actor may be NoHandle.
type Change struct {
	Add           []Handle
	Remove        []Handle
	LocalPending  []Handle
	RemotePending []Handle
	Actor         Handle
	Reason        Reason
	Message       string
}

func (c Change) Handles() []Handle {
	all := make([]Handle, 0, len(c.Add)+len(c.Remove)+len(c.LocalPending)+len(c.RemotePending))
	all = append(all, c.Add...)
	all = append(all, c.Remove...)
	all = append(all, c.LocalPending...)
	return append(all, c.RemotePending...)
}
