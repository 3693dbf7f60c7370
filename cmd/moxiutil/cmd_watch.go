package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchbase/moxi-sub001/internal/logging"
	"github.com/couchbase/moxi-sub001/internal/stdinwatch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Block until stdin reaches EOF or a newline, then exit 0",
	Long: "watch arms the stdin watcher and waits. The process exits with status 0\n" +
		"once standard input is closed or a line is entered, or on SIGINT/SIGTERM.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

// exitProcess terminates on behalf of the stdin watcher.
var exitProcess stdinwatch.ExitFunc = os.Exit

// watcherArmed is set once a watcher goroutine runs in this process.
var watcherArmed bool

func armStdinWatcher(cmd *cobra.Command) error {
	if watcherArmed {
		return nil
	}
	w := stdinwatch.New(
		stdinwatch.WithInput(cmd.InOrStdin()),
		stdinwatch.WithDiagnostics(cmd.ErrOrStderr()),
		stdinwatch.WithExit(exitProcess),
	)
	if err := w.Start(); err != nil {
		return err
	}
	watcherArmed = true
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := armStdinWatcher(cmd); err != nil {
		return err
	}
	logger := logging.New("watch")
	logger.Info("waiting for stdin to close")
	<-ctx.Done()
	logger.Info("watch stopped", "cause", context.Cause(ctx))
	return nil
}
