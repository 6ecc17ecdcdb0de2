package repositories

import (
	"presence-lab/domain"
	"presence-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func internAll(t *testing.T, repo *HandleRepository, names ...string) []domain.Handle {
	t.Helper()
	var handles []domain.Handle
	for _, name := range names {
		h, err := repo.Intern(domain.Contact, name)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	return handles
}

func refCount(t *testing.T, repo *HandleRepository, h domain.Handle) int {
	t.Helper()
	count, err := repo.RefCount(domain.Contact, h)
	if err != nil {
		return 0
	}
	return count
}

func TestHandleSet_Add_Remove(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	h := internAll(t, repo, "alice")[0]
	keep, err := repo.Ensure(domain.Contact, "alice")
	req.NoError(err)
	req.Equal(h, keep)

	set := NewHandleSet(repo, domain.Contact)

	req.NoError(set.Add(h))
	req.NoError(set.Add(h))
	req.Equal(2, refCount(t, repo, h))
	req.True(set.Contains(h))
	req.Equal(1, set.Size())

	req.True(set.Remove(h))
	req.False(set.Remove(h))
	req.Equal(1, refCount(t, repo, h))
	req.Zero(set.Size())

	req.ErrorIs(set.Add(99), errors.ErrInvalidHandle)
	req.Zero(set.Size())
}

func TestHandleSet_Update_Returns_Only_New_Handles(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	hs := internAll(t, repo, "a", "b", "c")
	set := NewHandleSet(repo, domain.Contact)
	req.NoError(set.Add(hs[0]))

	// When a batch overlapping the set, with a duplicate, is merged
	added, err := set.Update([]domain.Handle{hs[2], hs[0], hs[1], hs[2]})

	// Then only the missing handles are reported, once each
	req.NoError(err)
	req.Equal([]domain.Handle{hs[1], hs[2]}, added)
	req.Equal([]domain.Handle{hs[0], hs[1], hs[2]}, set.Snapshot())
	for _, h := range hs {
		req.Equal(1, refCount(t, repo, h))
	}
}

func TestHandleSet_Update_Is_Atomic(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	hs := internAll(t, repo, "a", "b")
	set := NewHandleSet(repo, domain.Contact)

	added, err := set.Update([]domain.Handle{hs[0], 42, hs[1]})

	req.ErrorIs(err, errors.ErrInvalidHandle)
	req.Nil(added)
	req.Zero(set.Size())
	req.Zero(refCount(t, repo, hs[0]))
}

func TestHandleSet_DifferenceUpdate_Returns_Only_Removed_Handles(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	hs := internAll(t, repo, "a", "b", "c")
	set := NewHandleSet(repo, domain.Contact)
	_, err := set.Update(hs[:2])
	req.NoError(err)

	removed := set.DifferenceUpdate([]domain.Handle{hs[1], hs[2], hs[1]})

	req.Equal([]domain.Handle{hs[1]}, removed)
	req.Equal([]domain.Handle{hs[0]}, set.Snapshot())
	// b had no other holder: its record is gone
	req.False(repo.IsValid(domain.Contact, hs[1]))
	// c was never in the set and is still floating
	req.True(repo.IsValid(domain.Contact, hs[2]))
	req.Empty(set.DifferenceUpdate(nil))
}

func TestHandleSet_RefCount_Matches_Holders(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	var hs []domain.Handle
	// each handle keeps one anchor reference so it survives empty sets
	for _, name := range []string{"a", "b", "c", "d"} {
		h, err := repo.Ensure(domain.Contact, name)
		req.NoError(err)
		hs = append(hs, h)
	}
	sets := []*HandleSet{
		NewHandleSet(repo, domain.Contact),
		NewHandleSet(repo, domain.Contact),
		NewHandleSet(repo, domain.Contact),
	}

	for step := 0; step < 40; step++ {
		set := sets[step%len(sets)]
		h := hs[(step*7)%len(hs)]
		if step%4 == 3 {
			set.Remove(h)
		} else {
			req.NoError(set.Add(h))
		}

		for _, h := range hs {
			holders := 1
			for _, s := range sets {
				if s.Contains(h) {
					holders++
				}
			}
			req.Equal(holders, refCount(t, repo, h), "step %d handle %d", step, h)
		}
	}

	for _, s := range sets {
		s.Close()
	}
	for _, h := range hs {
		req.NoError(repo.Unref(domain.Contact, h))
	}
	req.Zero(repo.Size(domain.Contact))
}

func TestHandleSet_ForEach_May_Mutate(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository()
	hs := internAll(t, repo, "a", "b", "c")
	set := NewHandleSet(repo, domain.Contact)
	_, err := set.Update(hs)
	req.NoError(err)

	var visited []domain.Handle
	set.ForEach(func(h domain.Handle) {
		visited = append(visited, h)
		set.Remove(h)
	})

	req.Equal(hs, visited)
	req.Zero(set.Size())
}
