package stdinwatch

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/couchbase/moxi-sub001/internal/logging"
)

// exitRecorder stands in for os.Exit.
type exitRecorder struct {
	codes chan int
}

func newExitRecorder() *exitRecorder {
	return &exitRecorder{codes: make(chan int, 4)}
}

func (r *exitRecorder) exit(code int) { r.codes <- code }

func (r *exitRecorder) wait(t *testing.T) int {
	t.Helper()
	select {
	case code := <-r.codes:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not terminate")
		return -1
	}
}

func (r *exitRecorder) none(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case code := <-r.codes:
		t.Fatalf("unexpected termination with %d", code)
	case <-time.After(d):
	}
}

// lockedBuffer is written by the watcher goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startWatcher(t *testing.T, in io.Reader) (*exitRecorder, *lockedBuffer) {
	t.Helper()
	rec := newExitRecorder()
	diag := &lockedBuffer{}
	w := New(
		WithInput(in),
		WithDiagnostics(diag),
		WithExit(rec.exit),
		WithLogger(logging.Discard()),
	)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return rec, diag
}

func TestWatcher_Terminations(t *testing.T) {
	tests := []struct {
		name string
		in   io.Reader
		want string
	}{
		{name: "newline", in: strings.NewReader("\n"), want: "EOL on stdin.  Exiting\n"},
		{name: "carriage return", in: strings.NewReader("abc\rdef"), want: "EOL on stdin.  Exiting\n"},
		{name: "immediate eof", in: strings.NewReader(""), want: "EOF on stdin.  Exiting\n"},
		{name: "eof without newline", in: strings.NewReader("partial"), want: "EOF on stdin.  Exiting\n"},
		{name: "read error", in: iotest.ErrReader(errors.New("boom")), want: "EOF on stdin.  Exiting\n"},
		{name: "one byte reads", in: iotest.OneByteReader(strings.NewReader("xy\n")), want: "EOL on stdin.  Exiting\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, diag := startWatcher(t, tt.in)
			if code := rec.wait(t); code != ExitOK {
				t.Errorf("exit code = %d, want %d", code, ExitOK)
			}
			if got := diag.String(); got != tt.want {
				t.Errorf("diagnostic = %q, want %q", got, tt.want)
			}
			rec.none(t, 20*time.Millisecond)
		})
	}
}

func TestWatcher_StartDoesNotBlock(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	begin := time.Now()
	rec, diag := startWatcher(t, pr)
	if elapsed := time.Since(begin); elapsed > time.Second {
		t.Fatalf("Start blocked for %v", elapsed)
	}

	rec.none(t, 50*time.Millisecond)

	if _, err := pw.Write([]byte("a")); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec.none(t, 20*time.Millisecond)

	_ = pw.Close()
	rec.wait(t)
	if !strings.HasPrefix(diag.String(), "EOF") {
		t.Errorf("diagnostic = %q", diag.String())
	}
}

func TestWatcher_LeavesRestOfInput(t *testing.T) {
	in := strings.NewReader("quit\nnext command")
	rec, _ := startWatcher(t, in)
	rec.wait(t)
	if in.Len() != len("next command") {
		t.Errorf("watcher consumed past the terminator: %d bytes left", in.Len())
	}
}

func TestWatcher_StartFailures(t *testing.T) {
	var diag bytes.Buffer
	w := New(WithInput(nil), WithDiagnostics(&diag), WithLogger(logging.Discard()))
	if err := w.Start(); !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
	if !strings.HasPrefix(diag.String(), "Can't start stdin watcher") {
		t.Errorf("diagnostic = %q", diag.String())
	}

	pr, pw := io.Pipe()
	defer pw.Close()
	rec := newExitRecorder()
	w = New(WithInput(pr), WithDiagnostics(io.Discard), WithExit(rec.exit), WithLogger(logging.Discard()))
	if err := w.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start err = %v, want ErrAlreadyStarted", err)
	}
}

func TestAwait(t *testing.T) {
	if got := Await(strings.NewReader("\r")); got != ReasonEOL {
		t.Errorf("Await = %s, want EOL", got)
	}
	if got := Await(strings.NewReader("")); got != ReasonEOF {
		t.Errorf("Await = %s, want EOF", got)
	}
}
