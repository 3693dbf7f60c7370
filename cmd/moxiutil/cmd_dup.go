package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchbase/moxi-sub001/internal/cstr"
	"github.com/couchbase/moxi-sub001/internal/report"
)

var dupFlags allocFlags

var dupCmd = &cobra.Command{
	Use:   "dup STRING...",
	Short: "Duplicate strings into owned buffers and report the allocations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDup,
}

func init() {
	dupFlags.register(dupCmd)
}

func runDup(cmd *cobra.Command, args []string) error {
	copier, tracker, err := dupFlags.newCopier()
	if err != nil {
		return err
	}

	owned := make([]cstr.Str, 0, len(args))
	release := func() {
		for _, s := range owned {
			tracker.FreeString(s)
		}
		owned = owned[:0]
	}

	copies := make([]report.Copy, 0, len(args))
	for _, arg := range args {
		d, err := copier.DupString(arg)
		if err != nil {
			release()
			return fmt.Errorf("dup %q: %w", arg, err)
		}
		owned = append(owned, d)
		copies = append(copies, report.Copy{Input: arg, Output: d.String(), Size: uint64(len(d))})
	}
	release()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Copies(tableMode(), copies))
	fmt.Fprintln(out, report.Allocations(tableMode(), tracker.Stats()))
	return nil
}
