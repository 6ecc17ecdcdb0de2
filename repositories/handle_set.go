package repositories

import (
	"presence-lab/domain"
	"slices"

	"github.com/samber/lo"
)

// HandleSet holds exactly one reference on each of its members.
type HandleSet struct {
	repo       *HandleRepository
	handleType domain.HandleType
	members    map[domain.Handle]struct{}
}

func NewHandleSet(repo *HandleRepository, handleType domain.HandleType) *HandleSet {
	return &HandleSet{
		repo:       repo,
		handleType: handleType,
		members:    make(map[domain.Handle]struct{}),
	}
}

func (s *HandleSet) Type() domain.HandleType {
	return s.handleType
}

// Add is a no-op for a present handle. It fails only for a handle the
// repository does not know.
func (s *HandleSet) Add(h domain.Handle) error {
	if s.Contains(h) {
		return nil
	}
	if err := s.repo.Ref(s.handleType, h); err != nil {
		return err
	}
	s.members[h] = struct{}{}
	return nil
}

// Remove reports whether h was present.
func (s *HandleSet) Remove(h domain.Handle) bool {
	if !s.Contains(h) {
		return false
	}
	delete(s.members, h)
	s.unref(h)
	return true
}

func (s *HandleSet) Contains(h domain.Handle) bool {
	_, ok := s.members[h]
	return ok
}

func (s *HandleSet) Size() int {
	return len(s.members)
}

// Snapshot returns the members in ascending order.
func (s *HandleSet) Snapshot() []domain.Handle {
	handles := lo.Keys(s.members)
	slices.Sort(handles)
	return handles
}

// ForEach visits members in ascending order. The visitor may mutate the set.
func (s *HandleSet) ForEach(visit func(h domain.Handle)) {
	for _, h := range s.Snapshot() {
		visit(h)
	}
}

// Update adds every handle of add and returns those that were not already
// present, in ascending order. Nothing changes if one handle is invalid.
func (s *HandleSet) Update(add []domain.Handle) ([]domain.Handle, error) {
	if err := s.repo.AreValid(s.handleType, add, false); err != nil {
		return nil, err
	}
	added := lo.Uniq(lo.Filter(add, func(h domain.Handle, _ int) bool {
		return !s.Contains(h)
	}))
	slices.Sort(added)
	for _, h := range added {
		// validated above, cannot fail
		_ = s.repo.Ref(s.handleType, h)
		s.members[h] = struct{}{}
	}
	return added, nil
}

// DifferenceUpdate removes every handle of remove and returns those that
// were actually present, in ascending order.
func (s *HandleSet) DifferenceUpdate(remove []domain.Handle) []domain.Handle {
	removed := lo.Uniq(lo.Filter(remove, func(h domain.Handle, _ int) bool {
		return s.Contains(h)
	}))
	slices.Sort(removed)
	for _, h := range removed {
		delete(s.members, h)
		s.unref(h)
	}
	return removed
}

// Close releases every member.
func (s *HandleSet) Close() {
	s.DifferenceUpdate(lo.Keys(s.members))
}

// unref panics on failure: the set holds a reference on every member, so
// an underflow means the repository was corrupted by someone else.
func (s *HandleSet) unref(h domain.Handle) {
	if err := s.repo.Unref(s.handleType, h); err != nil {
		panic(err)
	}
}
