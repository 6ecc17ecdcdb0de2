//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"reflect"
	"time"
)

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which client sinks follow which channel.
type IRegistry interface {
	GetSinksForChannel(channelID domain.ChannelID) []EventSink
	Subscribe(clientID string, channelID domain.ChannelID, sink EventSink)
	Unsubscribe(clientID string, channelID domain.ChannelID)
	UnsubscribeClient(clientID string)
	RemoveChannel(channelID domain.ChannelID)
}

// ChannelCapability performs the channel-kind specific side of adding or
// removing a member, usually by announcing it on the wire. An error aborts
// the rest of the batch.
type ChannelCapability interface {
	AttemptAdd(ctx context.Context, handle domain.Handle, message string) error
	AttemptRemove(ctx context.Context, handle domain.Handle, message string, reason domain.Reason) error
}

// Outbox is the wire side of the channel kinds. Names are interned names,
// never handles: handles mean nothing outside the session.
type Outbox interface {
	Join(ctx context.Context, room, nick string) error
	Leave(ctx context.Context, room, nick, message string) error
	Invite(ctx context.Context, room, contact, message string) error
	RequestSubscription(ctx context.Context, contact, message string) error
	AuthorizeSubscription(ctx context.Context, contact string) error
	CancelSubscription(ctx context.Context, contact string) error
}

// Scheduler runs fn later on the session's processing loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type Timer interface {
	// Stop reports whether the callback was prevented from running.
	Stop() bool
}

type RefOp string

const (
	RefOpRef   RefOp = "ref"
	RefOpUnref RefOp = "unref"
)

// RefTracer observes every reference count change of a repository.
type RefTracer interface {
	Trace(handle domain.Handle, handleType domain.HandleType, op RefOp, refCount int)
}
