package cstr

import "fmt"

// List is a sentinel-terminated array of owned strings: the first nil slot
// marks the end. A List owns its strings and its own backing array.
type List []Str

// Len returns the number of strings before the sentinel.
func (l List) Len() int {
	for i, s := range l {
		if s == nil {
			return i
		}
	}
	return len(l)
}

// Strings returns the contents of every string before the sentinel.
func (l List) Strings() []string {
	n := l.Len()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = l[i].String()
	}
	return out
}

// NewList allocates a list array through c and fills it with owned copies of
// items, followed by the sentinel. If a propagated allocation fails, whatever
// was already allocated is released before the error is returned.
func NewList(c *Copier, items ...string) (List, error) {
	a := c.Allocator()
	l, err := a.AllocList(len(items) + 1)
	if err != nil {
		return nil, c.fail(fmt.Errorf("new list of %d: %w", len(items), err))
	}
	for i, item := range items {
		s, err := c.DupString(item)
		if err != nil {
			FreeList(a, l)
			return nil, fmt.Errorf("new list item %d: %w", i, err)
		}
		l[i] = s
	}
	return l, nil
}

// FreeList releases every string before the sentinel and then the array
// itself. The list must not be used afterwards; its slots are cleared.
// A list with no sentinel is freed up to the end of the slice.
func FreeList(a Allocator, l List) {
	if l == nil {
		return
	}
	for i := range l {
		if l[i] == nil {
			break
		}
		a.FreeString(l[i])
		l[i] = nil
	}
	a.FreeList(l)
}
