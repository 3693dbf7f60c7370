package cstr

import "sync"

// Stats is a snapshot of a Tracker's counters.
type Stats struct {
	Allocs int
	Frees  int
	// Live is the number of allocations not yet freed.
	Live int
	// DoubleFrees counts frees of a handle that was not live: already freed,
	// never allocated through this Tracker, or empty.
	DoubleFrees int
	// Failed counts allocations the wrapped Allocator refused.
	Failed int
}

// Leaked reports whether anything is still live.
func (s Stats) Leaked() bool { return s.Live > 0 }

// Tracker wraps an Allocator and accounts for every allocation and free.
// Handles are keyed by the address of their first element; freed handles stay
// referenced so their addresses cannot be handed out again while the Tracker
// is in use. Safe for concurrent use.
type Tracker struct {
	inner Allocator

	mu    sync.Mutex
	live  map[any]struct{}
	freed map[any]struct{}
	stats Stats
}

// NewTracker wraps inner; a nil inner tracks an unlimited Heap.
func NewTracker(inner Allocator) *Tracker {
	if inner == nil {
		inner = &Heap{}
	}
	return &Tracker{
		inner: inner,
		live:  make(map[any]struct{}),
		freed: make(map[any]struct{}),
	}
}

func (t *Tracker) AllocString(size int) (Str, error) {
	s, err := t.inner.AllocString(size)
	if err != nil {
		t.fail()
		return nil, err
	}
	t.alloc(&s[0])
	return s, nil
}

func (t *Tracker) AllocList(slots int) (List, error) {
	l, err := t.inner.AllocList(slots)
	if err != nil {
		t.fail()
		return nil, err
	}
	t.alloc(&l[0])
	return l, nil
}

func (t *Tracker) FreeString(s Str) {
	if len(s) == 0 {
		t.free(nil)
		return
	}
	if t.free(&s[0]) {
		t.inner.FreeString(s)
	}
}

func (t *Tracker) FreeList(l List) {
	if len(l) == 0 {
		t.free(nil)
		return
	}
	if t.free(&l[0]) {
		t.inner.FreeList(l)
	}
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.stats
	s.Live = len(t.live)
	return s
}

func (t *Tracker) alloc(key any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Allocs++
	t.live[key] = struct{}{}
}

func (t *Tracker) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Failed++
}

// free records a free and reports whether it should reach the inner Allocator.
func (t *Tracker) free(key any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if key == nil {
		t.stats.DoubleFrees++
		return false
	}
	if _, ok := t.live[key]; !ok {
		t.stats.DoubleFrees++
		return false
	}
	delete(t.live, key)
	t.freed[key] = struct{}{}
	t.stats.Frees++
	return true
}
