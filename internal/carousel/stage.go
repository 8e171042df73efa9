package carousel

import "sync"

// Ticket orders render attempts within a stage. Later tickets win.
type Ticket struct {
	seq uint64
}

// Stage owns the current mount of one viewer. At most one mount is current;
// installing a new one tears the previous one down first.
type Stage struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	current   *Mount
}

// NewStage returns an empty stage.
func NewStage() *Stage { return &Stage{} }

// Begin issues a ticket for a render that is about to fetch.
func (s *Stage) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket{seq: s.issued}
}

// Commit installs m if t is newer than the committed ticket. A stale commit
// tears m down instead. Either way the snapshot of the mount that is current
// afterwards is returned; applied reports whether m became current.
func (s *Stage) Commit(t Ticket, m *Mount) (snap Snapshot, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.seq <= s.committed && s.current != nil {
		m.Teardown()
		snap, _ = s.current.Snapshot()
		return snap, false
	}
	if s.current != nil && s.current != m {
		s.current.Teardown()
	}
	s.current = m
	s.committed = t.seq
	snap, _ = m.Snapshot()
	return snap, true
}

// Current returns a snapshot of the current mount.
func (s *Stage) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	snap, err := s.current.Snapshot()
	if err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Mount returns the current mount when its id matches.
func (s *Stage) Mount(id string) (*Mount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != id {
		return nil, ErrMountTornDown
	}
	return s.current, nil
}

// Teardown releases the current mount and leaves the stage empty.
func (s *Stage) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Teardown()
		s.current = nil
	}
}
