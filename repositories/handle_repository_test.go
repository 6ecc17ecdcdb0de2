package repositories

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/errors"
	"presence-lab/mocks"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRepository(opts ...Option) *HandleRepository {
	return NewHandleRepository(logs.GetLoggerFromLevel(slog.LevelDebug), opts...)
}

func TestHandleRepository_Intern_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	// When the same name is interned twice
	first, err := repo.Intern(domain.Contact, "alice")
	req.NoError(err)
	second, err := repo.Intern(domain.Contact, "alice")
	req.NoError(err)

	// Then the same handle is returned
	req.Equal(first, second)
	req.Equal(domain.Handle(1), first)
	req.Equal(1, repo.Size(domain.Contact))
}

func TestHandleRepository_Namespaces_Are_Independent(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	contact, err := repo.Intern(domain.Contact, "lobby")
	req.NoError(err)
	room, err := repo.Intern(domain.Room, "lobby")
	req.NoError(err)

	req.Equal(domain.Handle(1), contact)
	req.Equal(domain.Handle(1), room)
	req.True(repo.IsValid(domain.Room, room))
	req.False(repo.IsValid(domain.Room, 2))
}

func TestHandleRepository_Intern_Rejects_Bad_Names(t *testing.T) {
	repo := newTestRepository()

	t.Run("empty contact", func(t *testing.T) {
		_, err := repo.Intern(domain.Contact, "")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
	t.Run("blank contact", func(t *testing.T) {
		_, err := repo.Intern(domain.Contact, "   ")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
	t.Run("room with separator", func(t *testing.T) {
		_, err := repo.Intern(domain.Room, "a/b")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
	t.Run("unknown list", func(t *testing.T) {
		_, err := repo.Intern(domain.List, "deny")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
	t.Run("unknown type", func(t *testing.T) {
		_, err := repo.Intern(domain.HandleType(42), "alice")
		require.ErrorIs(t, err, errors.ErrInvalidHandleType)
	})
	t.Run("too long", func(t *testing.T) {
		short := newTestRepository(WithMaxNameLength(4))
		_, err := short.Intern(domain.Contact, "alice")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})

	require.Zero(t, repo.Size(domain.Contact))
}

func TestHandleRepository_Custom_Normalizer(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(WithNormalizer(domain.Contact, func(name string) (string, error) {
		return strings.ToLower(name), nil
	}))

	upper, err := repo.Intern(domain.Contact, "Alice@Host")
	req.NoError(err)
	lower, err := repo.Intern(domain.Contact, "alice@host")
	req.NoError(err)

	req.Equal(upper, lower)
	name, err := repo.Inspect(domain.Contact, upper)
	req.NoError(err)
	req.Equal("alice@host", name)
}

func TestHandleRepository_Lists_Are_Static_And_Immortal(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	for i, name := range domain.ListNames {
		h, err := repo.Intern(domain.List, name)
		req.NoError(err)
		req.Equal(domain.Handle(i+1), h)
	}

	known, err := repo.Lookup(domain.List, domain.ListKnown)
	req.NoError(err)

	// Ref and unref never change anything on a list handle
	req.NoError(repo.Unref(domain.List, known))
	req.NoError(repo.Unref(domain.List, known))
	req.NoError(repo.Ref(domain.List, known))
	req.True(repo.IsValid(domain.List, known))

	name, err := repo.Inspect(domain.List, known)
	req.NoError(err)
	req.Equal(domain.ListKnown, name)

	req.ErrorIs(repo.Ref(domain.List, 4), errors.ErrInvalidHandle)
	req.ErrorIs(repo.Unref(domain.List, 0), errors.ErrInvalidHandle)
}

// alice → 1, bob → 2, alice released to zero, carol reuses 1.
func TestHandleRepository_Reuses_Released_Handle(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	alice, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)
	bob, err := repo.Ensure(domain.Contact, "bob")
	req.NoError(err)
	req.Equal(domain.Handle(1), alice)
	req.Equal(domain.Handle(2), bob)

	req.NoError(repo.Unref(domain.Contact, alice))
	req.False(repo.IsValid(domain.Contact, alice))

	carol, err := repo.Intern(domain.Contact, "carol")
	req.NoError(err)
	req.Equal(domain.Handle(1), carol)

	_, err = repo.Lookup(domain.Contact, "alice")
	req.ErrorIs(err, errors.ErrInvalidHandle)
}

func TestHandleRepository_Serial_Rolls_Back(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	var handles []domain.Handle
	for _, name := range []string{"a", "b", "c"} {
		h, err := repo.Ensure(domain.Contact, name)
		req.NoError(err)
		handles = append(handles, h)
	}

	// Given 2 then 3 are released
	req.NoError(repo.Unref(domain.Contact, handles[1]))
	req.NoError(repo.Unref(domain.Contact, handles[2]))

	// Then the next name gets 2 and the one after 3, never a live value
	d, err := repo.Intern(domain.Contact, "d")
	req.NoError(err)
	req.Equal(domain.Handle(2), d)
	e, err := repo.Intern(domain.Contact, "e")
	req.NoError(err)
	req.Equal(domain.Handle(3), e)
	req.NotEqual(handles[0], d)
}

func TestHandleRepository_Never_Hands_Out_Live_Handle(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	live := make(map[domain.Handle]string)

	names := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7"}
	for round := 0; round < 5; round++ {
		for i, name := range names {
			if (i+round)%3 == 0 {
				if h, err := repo.Lookup(domain.Contact, name); err == nil {
					req.NoError(repo.Unref(domain.Contact, h))
					delete(live, h)
				}
				continue
			}
			if _, err := repo.Lookup(domain.Contact, name); err == nil {
				continue
			}
			h, err := repo.Ensure(domain.Contact, name)
			req.NoError(err)
			owner, taken := live[h]
			req.False(taken, "handle %d handed to %s while %s holds it", h, name, owner)
			live[h] = name
		}
	}
	req.Equal(len(live), repo.Size(domain.Contact))
}

func TestHandleRepository_Unref_Underflow_Is_Invariant_Violation(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	floating, err := repo.Intern(domain.Contact, "floating")
	req.NoError(err)

	// A record nobody references cannot be unreferenced
	req.ErrorIs(repo.Unref(domain.Contact, floating), errors.ErrInvariantViolation)
	// Nor can an unknown one
	req.ErrorIs(repo.Unref(domain.Contact, 99), errors.ErrInvariantViolation)

	// The floating record is still live
	req.True(repo.IsValid(domain.Contact, floating))
	count, err := repo.RefCount(domain.Contact, floating)
	req.NoError(err)
	req.Zero(count)
}

func TestHandleRepository_AreValid_Reports_First_Invalid(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	a, _ := repo.Intern(domain.Contact, "a")
	b, _ := repo.Intern(domain.Contact, "b")

	req.NoError(repo.AreValid(domain.Contact, []domain.Handle{a, b}, false))
	req.NoError(repo.AreValid(domain.Contact, []domain.Handle{a, 0, b}, true))

	err := repo.AreValid(domain.Contact, []domain.Handle{a, 0, 7}, false)
	req.ErrorIs(err, errors.ErrInvalidHandle)
	var handleErr *errors.HandleError
	req.True(stderrors.As(err, &handleErr))
	req.Equal(1, handleErr.Index)
	req.Equal(uint32(0), handleErr.Handle)

	err = repo.AreValid(domain.HandleType(0), []domain.Handle{a}, false)
	req.ErrorIs(err, errors.ErrInvalidHandleType)
}

func TestHandleRepository_Data_Is_Destroyed_With_Record(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	h, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)

	var destroyed []any
	destroy := func(v any) { destroyed = append(destroyed, v) }

	req.NoError(repo.SetData(domain.Contact, h, "avatar", "v1", destroy))
	value, ok := repo.GetData(domain.Contact, h, "avatar")
	req.True(ok)
	req.Equal("v1", value)

	// Replacing a value destroys the previous one
	req.NoError(repo.SetData(domain.Contact, h, "avatar", "v2", destroy))
	req.Equal([]any{"v1"}, destroyed)

	// Releasing the record destroys what is left
	req.NoError(repo.Unref(domain.Contact, h))
	req.Equal([]any{"v1", "v2"}, destroyed)

	// A new record on the same integer starts empty
	again, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)
	req.Equal(h, again)
	_, ok = repo.GetData(domain.Contact, again, "avatar")
	req.False(ok)

	req.ErrorIs(repo.SetData(domain.Contact, 42, "k", 1, nil), errors.ErrInvalidHandle)
}

func TestHandleRepository_RemoveData_Skips_Destroy(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	destroyed := false
	req.NoError(repo.SetData(domain.List, domain.ListKnown, "channel", "c1", func(any) { destroyed = true }))

	value, ok := repo.RemoveData(domain.List, domain.ListKnown, "channel")
	req.True(ok)
	req.Equal("c1", value)
	req.False(destroyed)

	_, ok = repo.GetData(domain.List, domain.ListKnown, "channel")
	req.False(ok)
}

func TestHandleRepository_Normalize_Creates_Nothing(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()

	name, err := repo.Normalize(domain.Contact, "  alice@host ")
	req.NoError(err)
	req.Equal("alice@host", name)
	req.Zero(repo.Size(domain.Contact))

	_, err = repo.Normalize(domain.Room, "a/b")
	req.ErrorIs(err, errors.ErrInvalidArgument)
	_, err = repo.Normalize(domain.List, "deny")
	req.ErrorIs(err, errors.ErrInvalidArgument)
}

func TestHandleRepository_Client_Hold_And_Release(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	alice, _ := repo.Intern(domain.Contact, "alice")
	lobby, _ := repo.Intern(domain.Room, "lobby")

	// Given a client holds two handles, one of them twice
	req.NoError(repo.ClientHold(":1.42", alice, domain.Contact))
	req.NoError(repo.ClientHold(":1.42", alice, domain.Contact))
	req.NoError(repo.ClientHold(":1.42", lobby, domain.Room))
	count, _ := repo.RefCount(domain.Contact, alice)
	req.Equal(1, count)

	// When the contact is released explicitly
	req.NoError(repo.ClientRelease(":1.42", alice, domain.Contact))

	// Then the record dies and a second release fails
	req.False(repo.IsValid(domain.Contact, alice))
	req.ErrorIs(repo.ClientRelease(":1.42", alice, domain.Contact), errors.ErrNotAvailable)
	req.ErrorIs(repo.ClientRelease(":1.99", lobby, domain.Room), errors.ErrNotAvailable)

	// And disconnecting drops the remaining hold
	req.Equal(1, repo.ClientDisconnected(":1.42"))
	req.False(repo.IsValid(domain.Room, lobby))
	req.Zero(repo.ClientDisconnected(":1.42"))

	req.ErrorIs(repo.ClientHold(":1.42", 77, domain.Contact), errors.ErrInvalidHandle)
	req.ErrorIs(repo.ClientHold("", alice, domain.Contact), errors.ErrInvalidArgument)
}

func TestHandleRepository_Tracer_Sees_Every_Change(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tracer := mocks.NewMockRefTracer(ctrl)
	repo := newTestRepository(WithTracer(tracer))

	h, err := repo.Intern(domain.Contact, "alice")
	req.NoError(err)

	gomock.InOrder(
		tracer.EXPECT().Trace(h, domain.Contact, contract.RefOpRef, 1),
		tracer.EXPECT().Trace(h, domain.Contact, contract.RefOpRef, 2),
		tracer.EXPECT().Trace(h, domain.Contact, contract.RefOpUnref, 1),
		tracer.EXPECT().Trace(h, domain.Contact, contract.RefOpUnref, 0),
	)

	req.NoError(repo.Ref(domain.Contact, h))
	req.NoError(repo.Ref(domain.Contact, h))
	req.NoError(repo.Unref(domain.Contact, h))
	req.NoError(repo.Unref(domain.Contact, h))
}

func TestHandleRepository_Sweep_Reclaims_Unclaimed_Records(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	alice, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)
	ghost, err := repo.Intern(domain.Contact, "ghost")
	req.NoError(err)
	lobby, err := repo.Intern(domain.Room, "lobby")
	req.NoError(err)

	// When nobody claimed ghost and lobby
	req.Equal(2, repo.Sweep())

	// Then only alice is left and ghost's value is free again
	req.True(repo.IsValid(domain.Contact, alice))
	req.False(repo.IsValid(domain.Contact, ghost))
	req.False(repo.IsValid(domain.Room, lobby))
	next, err := repo.Intern(domain.Contact, "carol")
	req.NoError(err)
	req.Equal(ghost, next)

	// And Close sweeps what is left unclaimed
	repo.Close()
	req.False(repo.IsValid(domain.Contact, next))
	req.Equal(1, repo.Size(domain.Contact))
}

func TestHandleRepository_Dump(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	_, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)
	_, err = repo.Ensure(domain.Room, "lobby")
	req.NoError(err)

	var buf bytes.Buffer
	repo.Dump(&buf)

	out := buf.String()
	req.Contains(out, "alice")
	req.Contains(out, "lobby")
	req.Contains(out, domain.ListSubscribe)
}
