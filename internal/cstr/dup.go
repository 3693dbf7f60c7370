package cstr

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/couchbase/moxi-sub001/internal/logging"
)

// ErrNilString is returned when a nil Str is passed where a string is required.
var ErrNilString = errors.New("nil string")

// ExitAbort is the process status used by the default abort handler
// (128 + SIGABRT).
const ExitAbort = 134

// Policy decides what a Copier does when an allocation fails.
type Policy int

const (
	// PolicyAbort hands the failure to the Copier's Abort handler.
	PolicyAbort Policy = iota
	// PolicyPropagate returns the failure to the caller.
	PolicyPropagate
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicyPropagate:
		return "propagate"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "abort" or "propagate" (case-insensitive) to a Policy.
// The empty string selects PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "propagate":
		return PolicyPropagate, nil
	default:
		return 0, fmt.Errorf("unknown allocation policy %q (want abort or propagate)", s)
	}
}

var defaultHeap = &Heap{}

// Copier duplicates strings through an Allocator.
// The zero value uses an unlimited Heap and aborts on failure.
type Copier struct {
	Alloc  Allocator
	Policy Policy
	// Abort is called with the failure under PolicyAbort. Nil logs the error
	// and exits with ExitAbort. If Abort returns, Dup reports the error and
	// returns no handle.
	Abort  func(error)
	Logger *slog.Logger
}

// Allocator returns the Allocator the Copier draws from.
func (c *Copier) Allocator() Allocator {
	if c.Alloc == nil {
		return defaultHeap
	}
	return c.Alloc
}

// Dup returns an independently owned copy of s up to and including its
// terminator.
func (c *Copier) Dup(s Str) (Str, error) {
	if s == nil {
		return nil, ErrNilString
	}
	n := s.Len()
	d, err := c.allocString(n + 1)
	if err != nil {
		return nil, err
	}
	copy(d, s[:n])
	d[n] = 0
	return d, nil
}

// DupString copies s into a new owned Str. Like any C string, s ends at its
// first NUL byte.
func (c *Copier) DupString(s string) (Str, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	d, err := c.allocString(len(s) + 1)
	if err != nil {
		return nil, err
	}
	copy(d, s)
	d[len(s)] = 0
	return d, nil
}

func (c *Copier) allocString(size int) (Str, error) {
	d, err := c.Allocator().AllocString(size)
	if err != nil {
		return nil, c.fail(fmt.Errorf("dup %d bytes: %w", size, err))
	}
	return d, nil
}

// fail applies the Copier's Policy to err and returns it.
func (c *Copier) fail(err error) error {
	if c.Policy != PolicyAbort {
		return err
	}
	if c.Abort != nil {
		c.Abort(err)
		return err
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.New("cstr")
	}
	logger.Error("allocation failed, aborting", slog.Any("err", err))
	os.Exit(ExitAbort)
	return err
}

var std = &Copier{}

// Dup is strdup: an owned copy of s from the Go heap. Allocation failure
// aborts the process. A nil s yields nil.
func Dup(s Str) Str {
	d, _ := std.Dup(s)
	return d
}
