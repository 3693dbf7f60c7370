package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchbase/moxi-sub001/internal/cstr"
	"github.com/couchbase/moxi-sub001/internal/report"
)

var listFlags allocFlags

var listCmd = &cobra.Command{
	Use:   "list STRING...",
	Short: "Build a sentinel-terminated string list, print it and free it",
	RunE:  runList,
}

func init() {
	listFlags.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	copier, tracker, err := listFlags.newCopier()
	if err != nil {
		return err
	}

	l, err := cstr.NewList(copier, args...)
	if err != nil {
		return err
	}

	fields := make([]report.Field, 0, l.Len())
	for i, s := range l.Strings() {
		fields = append(fields, report.Field{Source: "list", Index: i, Value: s})
	}
	cstr.FreeList(tracker, l)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Fields(tableMode(), fields))
	fmt.Fprintln(out, report.Allocations(tableMode(), tracker.Stats()))
	return nil
}
