package carousel

import (
	"sync"
	"time"
)

// Registry defaults.
const (
	DefaultStageTTL  = 30 * time.Minute
	DefaultMaxStages = 10000
)

type stageEntry struct {
	stage    *Stage
	lastSeen time.Time
}

// Registry keeps one Stage per viewer key, dropping idle ones.
type Registry struct {
	mu     sync.Mutex
	stages map[string]*stageEntry
	ttl    time.Duration
	max    int
	now    func() time.Time
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithTTL sets how long an untouched stage is kept.
func WithTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithMaxStages caps the number of stages; the least recently used is evicted.
func WithMaxStages(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.max = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		stages: make(map[string]*stageEntry),
		ttl:    DefaultStageTTL,
		max:    DefaultMaxStages,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stage returns the stage for key, creating it when absent.
func (r *Registry) Stage(key string) *Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if e, ok := r.stages[key]; ok {
		e.lastSeen = now
		return e.stage
	}
	if len(r.stages) >= r.max {
		r.evictOldestLocked()
	}
	e := &stageEntry{stage: NewStage(), lastSeen: now}
	r.stages[key] = e
	return e.stage
}

// Lookup returns the stage for key without creating one.
func (r *Registry) Lookup(key string) (*Stage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stages[key]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.stage, true
}

// Len reports the number of live stages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stages)
}

// Sweep tears down stages idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for key, e := range r.stages {
		if e.lastSeen.Before(cutoff) {
			e.stage.Teardown()
			delete(r.stages, key)
			removed++
		}
	}
	return removed
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestKey string
		oldest    *stageEntry
	)
	for key, e := range r.stages {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestKey, oldest = key, e
		}
	}
	if oldest != nil {
		oldest.stage.Teardown()
		delete(r.stages, oldestKey)
	}
}
