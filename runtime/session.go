// Package runtime runs a session: one processing loop owning the handle
// repository and the open channels, plus the delivery of their events.
// It holds no membership rules itself.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"presence-lab/channels"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/domain/event"
	"presence-lab/errors"
	"presence-lab/repositories"
	"presence-lab/runtime/workers"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type SessionConfig struct {
	SelfName          string
	CommandBufferSize int
	EventBufferSize   int
	SinkTimeout       time.Duration
	RestartInterval   time.Duration
	JoinTimeout       time.Duration
}

// Membership is a copy of a channel's membership state.
type Membership struct {
	Self          domain.Handle
	Flags         domain.GroupFlags
	Members       []domain.Handle
	LocalPending  []domain.LocalPendingMember
	RemotePending []domain.Handle
}

var _ contract.Scheduler = (*Session)(nil)

// Session serializes every repository and membership operation on a single
// loop. Exported methods may be called from any goroutine; the functions
// given to Do run on the loop and must not call Do themselves.
type Session struct {
	log            *slog.Logger
	config         SessionConfig
	repo           *repositories.HandleRepository
	outbox         contract.Outbox
	supervisor     *workers.Supervisor
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	commands       chan workers.Command
	events         chan event.DomainEvent
	self           domain.Handle

	// loop only
	open map[domain.ChannelID]channels.Channel

	runCtx   context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewSession takes a reference on the local user's contact handle, which
// owns our own participant handles in rooms.
func NewSession(log *slog.Logger, repo *repositories.HandleRepository, outbox contract.Outbox,
	registry contract.IRegistry, config SessionConfig) (*Session, error) {
	self, err := repo.Ensure(domain.Contact, config.SelfName)
	if err != nil {
		return nil, fmt.Errorf("self contact: %w", err)
	}
	runCtx, cancel := context.WithCancel(context.Background())
	return &Session{
		log:        log.With("component", "session"),
		config:     config,
		repo:       repo,
		outbox:     outbox,
		supervisor: workers.NewSupervisor(log, config.RestartInterval),
		registry:   registry,
		commands:   make(chan workers.Command, config.CommandBufferSize),
		events:     make(chan event.DomainEvent, config.EventBufferSize),
		self:       self,
		open:       make(map[domain.ChannelID]channels.Channel),
		runCtx:     runCtx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}, nil
}

// Add registers sinks receiving every event. Must be called before Start.
func (s *Session) Add(sinks ...contract.EventSink) {
	s.permanentSinks = append(s.permanentSinks, sinks...)
}

func (s *Session) Self() domain.Handle { return s.self }

// Start launches the loop and the event fanout under supervision. The
// session stops on its own when ctx is cancelled.
func (s *Session) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	context.AfterFunc(ctx, s.cancel)
	s.supervisor.Add(
		workers.NewSessionWorker(s.log, s.commands),
		workers.NewEventFanout(s.log, s.registry, s.events, s.config.SinkTimeout, s.permanentSinks...),
	)
	s.log.Info("Starting session", "self", s.config.SelfName)
	go func() {
		s.supervisor.Run(s.runCtx)
		close(s.done)
	}()
}

// Stop closes every channel, releasing their references, then stops the
// workers. Events still queued at that point are dropped.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		if s.started.Load() {
			err := s.Do(context.Background(), s.closeAll)
			s.cancel()
			<-s.done
			if err != nil {
				// the loop is gone, nothing else touches the state now
				s.log.Warn("Closing channels after the loop stopped", "error", err)
				_ = s.closeAll()
			}
		} else {
			s.cancel()
			_ = s.closeAll()
		}
		s.repo.Close()
		s.log.Info("Session stopped")
	})
}

// Do runs fn on the loop and returns its error. A panic in fn is returned
// as ErrWorkerPanic.
func (s *Session) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	cmd := func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("Session command panicked", "panic", r)
				result <- fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
			}
		}()
		result <- fn()
	}
	if err := s.enqueue(ctx, cmd); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.runCtx.Done():
		return errors.ErrSessionStopped
	}
}

func (s *Session) enqueue(ctx context.Context, cmd workers.Command) error {
	if s.runCtx.Err() != nil {
		return errors.ErrSessionStopped
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.runCtx.Done():
		return errors.ErrSessionStopped
	}
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

// Stop is only called on the loop, like the callback check.
func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

// AfterFunc runs fn on the loop once d elapsed, unless the timer was
// stopped first.
func (s *Session) AfterFunc(d time.Duration, fn func()) contract.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = s.enqueue(s.runCtx, func() {
			if t.stopped {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

func (s *Session) publish(e event.DomainEvent) {
	select {
	case s.events <- e:
	case <-s.runCtx.Done():
		s.log.Debug("Session stopped, event dropped", "channel", e.ChannelID())
	}
}

// OpenRoom opens the room channel, or returns the one already open.
func (s *Session) OpenRoom(ctx context.Context, roomName, nick string) (domain.ChannelID, error) {
	var id domain.ChannelID
	err := s.Do(ctx, func() error {
		if existing, ok := s.openFor(domain.Room, roomName); ok {
			id = existing
			return nil
		}
		ch, err := channels.NewRoomChannel(s.log, domain.NewChannelID(), s.repo, s.outbox, s,
			roomName, s.self, nick, s.config.JoinTimeout, s.publish)
		if err != nil {
			return err
		}
		s.register(ch)
		id = ch.ID()
		return nil
	})
	return id, err
}

// OpenList opens one of the contact lists, or returns the one already open.
func (s *Session) OpenList(ctx context.Context, listName string) (domain.ChannelID, error) {
	var id domain.ChannelID
	err := s.Do(ctx, func() error {
		if existing, ok := s.openFor(domain.List, listName); ok {
			id = existing
			return nil
		}
		ch, err := channels.NewListChannel(s.log, domain.NewChannelID(), s.repo, s.outbox, listName, s.self, s.publish)
		if err != nil {
			return err
		}
		s.register(ch)
		id = ch.ID()
		return nil
	})
	return id, err
}

func (s *Session) openFor(handleType domain.HandleType, name string) (domain.ChannelID, bool) {
	target, err := s.repo.Lookup(handleType, name)
	if err != nil {
		return "", false
	}
	value, ok := s.repo.GetData(handleType, target, channels.OpenChannelKey{})
	if !ok {
		return "", false
	}
	return value.(domain.ChannelID), true
}

func (s *Session) register(ch channels.Channel) {
	handleType, target := ch.Target()
	if err := s.repo.SetData(handleType, target, channels.OpenChannelKey{}, ch.ID(), nil); err != nil {
		s.log.Error("Cannot record open channel", "channel", ch.ID(), "error", err)
	}
	s.open[ch.ID()] = ch
	s.log.Info("Channel opened", "channel", ch.ID(), "kind", ch.Kind())
}

// CloseChannel releases the channel's membership state. Subscribers get a
// ChannelClosed event and are then dropped.
func (s *Session) CloseChannel(ctx context.Context, id domain.ChannelID) error {
	return s.Do(ctx, func() error {
		ch, err := s.channel(id)
		if err != nil {
			return err
		}
		return s.closeChannel(ctx, ch)
	})
}

func (s *Session) closeChannel(ctx context.Context, ch channels.Channel) error {
	handleType, target := ch.Target()
	s.repo.RemoveData(handleType, target, channels.OpenChannelKey{})
	delete(s.open, ch.ID())
	err := ch.Close(ctx)
	if err != nil {
		s.log.Warn("Channel closed with error", "channel", ch.ID(), "error", err)
	}
	s.publish(event.ChannelClosed{ID: uuid.New(), Channel: ch.ID(), Kind: ch.Kind(), At: time.Now().UTC()})
	return err
}

func (s *Session) closeAll() error {
	for _, ch := range s.open {
		_ = s.closeChannel(context.Background(), ch)
	}
	if s.self != domain.NoHandle {
		if err := s.repo.Unref(domain.Contact, s.self); err != nil {
			return err
		}
		s.self = domain.NoHandle
	}
	return nil
}

func (s *Session) channel(id domain.ChannelID) (channels.Channel, error) {
	ch, ok := s.open[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrChannelNotFound, id)
	}
	return ch, nil
}

// WithChannel runs fn on the loop with the open channel id.
func (s *Session) WithChannel(ctx context.Context, id domain.ChannelID, fn func(channels.Channel) error) error {
	return s.Do(ctx, func() error {
		ch, err := s.channel(id)
		if err != nil {
			return err
		}
		return fn(ch)
	})
}

func withKind[T channels.Channel](ctx context.Context, s *Session, id domain.ChannelID, fn func(T) error) error {
	return s.WithChannel(ctx, id, func(ch channels.Channel) error {
		typed, ok := ch.(T)
		if !ok {
			return fmt.Errorf("%w: channel %s is a %s", errors.ErrInvalidArgument, id, ch.Kind())
		}
		return fn(typed)
	})
}

// WithRoom is WithChannel for room channels; inbound room traffic enters
// through it.
func (s *Session) WithRoom(ctx context.Context, id domain.ChannelID, fn func(*channels.RoomChannel) error) error {
	return withKind(ctx, s, id, fn)
}

func (s *Session) WithList(ctx context.Context, id domain.ChannelID, fn func(*channels.ListChannel) error) error {
	return withKind(ctx, s, id, fn)
}

func (s *Session) AddMembers(ctx context.Context, id domain.ChannelID, handles []domain.Handle, message string) error {
	return s.WithChannel(ctx, id, func(ch channels.Channel) error {
		return ch.Group().AddMembers(ctx, handles, message)
	})
}

func (s *Session) RemoveMembers(ctx context.Context, id domain.ChannelID, handles []domain.Handle, message string, reason domain.Reason) error {
	return s.WithChannel(ctx, id, func(ch channels.Channel) error {
		return ch.Group().RemoveMembers(ctx, handles, message, reason)
	})
}

func (s *Session) Members(ctx context.Context, id domain.ChannelID) (Membership, error) {
	var m Membership
	err := s.WithChannel(ctx, id, func(ch channels.Channel) error {
		g := ch.Group()
		m = Membership{
			Self:          g.SelfHandle(),
			Flags:         g.Flags(),
			Members:       g.Members(),
			LocalPending:  g.LocalPending(),
			RemotePending: g.RemotePending(),
		}
		return nil
	})
	return m, err
}

func (s *Session) GetHandleOwners(ctx context.Context, id domain.ChannelID, handles []domain.Handle) ([]domain.Handle, error) {
	var owners []domain.Handle
	err := s.WithChannel(ctx, id, func(ch channels.Channel) (err error) {
		owners, err = ch.Group().GetHandleOwners(handles)
		return err
	})
	return owners, err
}

// Subscribe makes sink receive the events of an open channel on behalf of
// clientID.
func (s *Session) Subscribe(ctx context.Context, clientID string, id domain.ChannelID, sink contract.EventSink) error {
	return s.WithChannel(ctx, id, func(channels.Channel) error {
		s.registry.Subscribe(clientID, id, sink)
		return nil
	})
}

func (s *Session) Unsubscribe(clientID string, id domain.ChannelID) {
	s.registry.Unsubscribe(clientID, id)
}

// RequestHandles interns names for clientID and holds the results. Every
// name is checked before anything is created.
func (s *Session) RequestHandles(ctx context.Context, clientID string, handleType domain.HandleType, names []string) ([]domain.Handle, error) {
	var handles []domain.Handle
	err := s.Do(ctx, func() error {
		for i, name := range names {
			if _, err := s.repo.Normalize(handleType, name); err != nil {
				return fmt.Errorf("name %d: %w", i, err)
			}
		}
		for _, name := range names {
			h, err := s.repo.Intern(handleType, name)
			if err != nil {
				return err
			}
			if err = s.repo.ClientHold(clientID, h, handleType); err != nil {
				return err
			}
			handles = append(handles, h)
		}
		return nil
	})
	return handles, err
}

// HoldHandles keeps handles alive until clientID releases them or goes
// away. Nothing is held unless every handle is valid.
func (s *Session) HoldHandles(ctx context.Context, clientID string, handleType domain.HandleType, handles []domain.Handle) error {
	return s.Do(ctx, func() error {
		if err := s.repo.AreValid(handleType, handles, false); err != nil {
			return err
		}
		for _, h := range handles {
			if err := s.repo.ClientHold(clientID, h, handleType); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Session) ReleaseHandles(ctx context.Context, clientID string, handleType domain.HandleType, handles []domain.Handle) error {
	return s.Do(ctx, func() error {
		for _, h := range handles {
			if err := s.repo.ClientRelease(clientID, h, handleType); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Session) InspectHandles(ctx context.Context, handleType domain.HandleType, handles []domain.Handle) ([]string, error) {
	var names []string
	err := s.Do(ctx, func() error {
		if err := s.repo.AreValid(handleType, handles, false); err != nil {
			return err
		}
		names = lo.Map(handles, func(h domain.Handle, _ int) string {
			name, _ := s.repo.Inspect(handleType, h)
			return name
		})
		return nil
	})
	return names, err
}

// ClientDisconnected drops every hold and subscription of clientID and
// returns how many references were released.
func (s *Session) ClientDisconnected(ctx context.Context, clientID string) (int, error) {
	var released int
	err := s.Do(ctx, func() error {
		released = s.repo.ClientDisconnected(clientID)
		s.registry.UnsubscribeClient(clientID)
		s.publish(event.ClientReleased{ID: uuid.New(), ClientID: clientID, References: released, At: time.Now().UTC()})
		return nil
	})
	return released, err
}

func (s *Session) Dump(ctx context.Context, w io.Writer) error {
	return s.Do(ctx, func() error {
		s.repo.Dump(w)
		return nil
	})
}
