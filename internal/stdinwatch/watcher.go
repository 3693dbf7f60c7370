// Package stdinwatch terminates the process once its standard input reaches
// end-of-stream or a line terminator. A service started from a terminal or a
// supervisor pipe uses it to exit when that controlling input goes away.
//
// The watcher runs as a detached goroutine: Start keeps no handle to it, it
// cannot be cancelled or joined, and its only observable effect is the
// diagnostic line followed by a single call to the exit function.
package stdinwatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/couchbase/moxi-sub001/internal/logging"
)

// ExitOK is the status the watcher terminates with.
const ExitOK = 0

var (
	ErrNoInput        = errors.New("no input to watch")
	ErrAlreadyStarted = errors.New("already started")
)

// Reason is why the watcher stopped reading.
type Reason string

const (
	ReasonEOF Reason = "EOF"
	ReasonEOL Reason = "EOL"
)

// ExitFunc terminates the process. Production wiring uses os.Exit.
type ExitFunc func(code int)

// Option configures a Watcher.
type Option func(*Watcher)

// WithInput sets the stream to watch (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(w *Watcher) { w.in = r }
}

// WithDiagnostics sets where the one-line diagnostic goes (default os.Stderr).
func WithDiagnostics(out io.Writer) Option {
	return func(w *Watcher) { w.diag = out }
}

// WithExit replaces the termination handler (default os.Exit).
func WithExit(fn ExitFunc) Option {
	return func(w *Watcher) { w.exit = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher owns the configuration of one stdin watch.
type Watcher struct {
	in     io.Reader
	diag   io.Writer
	exit   ExitFunc
	logger *slog.Logger

	started atomic.Bool
}

// New returns an unstarted Watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{in: os.Stdin, diag: os.Stderr, exit: os.Exit}
	for _, opt := range opts {
		opt(w)
	}
	if w.diag == nil {
		w.diag = io.Discard
	}
	if w.exit == nil {
		w.exit = os.Exit
	}
	if w.logger == nil {
		w.logger = logging.New("stdinwatch")
	}
	return w
}

// Start launches the watcher goroutine and returns without waiting for it.
// A Watcher starts at most once. On failure a diagnostic is written and the
// error returned; whether that is fatal is up to the caller.
func (w *Watcher) Start() error {
	if w.in == nil {
		return w.refuse(ErrNoInput)
	}
	if !w.started.CompareAndSwap(false, true) {
		return w.refuse(ErrAlreadyStarted)
	}
	w.logger.Debug("watching stdin", slog.Bool("tty", isTerminal(w.in)))
	go w.run()
	return nil
}

func (w *Watcher) refuse(err error) error {
	fmt.Fprintf(w.diag, "Can't start stdin watcher: %v\n", err)
	return fmt.Errorf("start stdin watcher: %w", err)
}

func (w *Watcher) run() {
	reason := Await(w.in)
	fmt.Fprintf(w.diag, "%s on stdin.  Exiting\n", reason)
	w.logger.Debug("stdin closed", slog.String("reason", string(reason)))
	w.exit(ExitOK)
}

// Await reads r one byte at a time until end-of-stream or a '\n' or '\r'
// byte. Nothing past the terminator is consumed. Read errors count as
// end-of-stream.
func Await(r io.Reader) Reason {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 && (b[0] == '\n' || b[0] == '\r') {
			return ReasonEOL
		}
		if err != nil {
			return ReasonEOF
		}
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
