package cstr

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfMemory is wrapped by every allocation failure.
var ErrOutOfMemory = errors.New("out of memory")

// slotSize is what one list slot is charged against a Heap budget.
const slotSize = 8

// Allocator hands out owned strings and list arrays and takes them back.
type Allocator interface {
	// AllocString returns a zeroed buffer of size bytes.
	AllocString(size int) (Str, error)
	// AllocList returns a list array with slots nil entries.
	AllocList(slots int) (List, error)
	FreeString(s Str)
	FreeList(l List)
}

// Heap allocates from the Go heap. A non-zero Limit caps the number of bytes
// that may be live at once; the zero value is unlimited. Safe for concurrent use.
type Heap struct {
	Limit uint64

	mu   sync.Mutex
	used uint64
}

// NewHeap returns a Heap capped at limit bytes (0 = unlimited).
func NewHeap(limit uint64) *Heap {
	return &Heap{Limit: limit}
}

func (h *Heap) AllocString(size int) (Str, error) {
	if size <= 0 {
		return nil, fmt.Errorf("allocate string: invalid size %d", size)
	}
	if err := h.reserve(uint64(size)); err != nil {
		return nil, err
	}
	return make(Str, size), nil
}

func (h *Heap) AllocList(slots int) (List, error) {
	if slots <= 0 {
		return nil, fmt.Errorf("allocate list: invalid slot count %d", slots)
	}
	if err := h.reserve(uint64(slots) * slotSize); err != nil {
		return nil, err
	}
	return make(List, slots), nil
}

func (h *Heap) FreeString(s Str) {
	h.release(uint64(cap(s)))
}

func (h *Heap) FreeList(l List) {
	h.release(uint64(cap(l)) * slotSize)
}

// InUse reports the bytes currently charged against the budget.
func (h *Heap) InUse() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

func (h *Heap) reserve(n uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Limit > 0 && h.used+n > h.Limit {
		return fmt.Errorf("allocate %d bytes (%d of %d in use): %w", n, h.used, h.Limit, ErrOutOfMemory)
	}
	h.used += n
	return nil
}

func (h *Heap) release(n uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > h.used {
		h.used = 0
		return
	}
	h.used -= n
}
