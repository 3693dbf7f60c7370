package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/couchbase/moxi-sub001/internal/logging"
	"github.com/couchbase/moxi-sub001/internal/report"
	"github.com/couchbase/moxi-sub001/internal/strsep"
)

var splitFlags struct {
	delims   string
	parallel int
	files    []string
}

var splitCmd = &cobra.Command{
	Use:   "split [STRING]...",
	Short: "Tokenize strings or files at any byte of a delimiter set",
	RunE:  runSplit,
}

func init() {
	f := splitCmd.Flags()
	f.StringVarP(&splitFlags.delims, "delims", "d", "", "Delimiter byte set (default from config)")
	f.IntVarP(&splitFlags.parallel, "parallel", "p", 0, "Inputs tokenized concurrently (default from config)")
	f.StringArrayVarP(&splitFlags.files, "file", "f", nil, "File to tokenize (repeatable); one trailing newline is ignored")
}

// splitInput is one thing to tokenize; load returns a buffer Sep may modify.
type splitInput struct {
	source string
	load   func() ([]byte, error)
}

func runSplit(cmd *cobra.Command, args []string) error {
	delims := cfg.Split.Delims
	if cmd.Flags().Changed("delims") {
		delims = splitFlags.delims
	}
	parallel := cfg.Split.Parallel
	if splitFlags.parallel > 0 {
		parallel = splitFlags.parallel
	}
	if parallel <= 0 {
		parallel = 1
	}

	var inputs []splitInput
	for _, path := range splitFlags.files {
		inputs = append(inputs, splitInput{source: path, load: func() ([]byte, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return trimNewline(data), nil
		}})
	}
	for i, arg := range args {
		inputs = append(inputs, splitInput{source: fmt.Sprintf("arg%d", i+1), load: func() ([]byte, error) {
			buf := make([]byte, len(arg))
			copy(buf, arg)
			return buf, nil
		}})
	}
	if len(inputs) == 0 {
		return errors.New("nothing to split: pass strings or --file")
	}

	logger := logging.New("split")
	results := make([][]report.Field, len(inputs))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := in.load()
			if err != nil {
				return fmt.Errorf("load %s: %w", in.source, err)
			}
			results[i] = tokenize(in.source, buf, delims)
			logger.Debug("tokenized", slog.String("source", in.source), slog.Int("fields", len(results[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var fields []report.Field
	for _, r := range results {
		fields = append(fields, r...)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Fields(tableMode(), fields))
	return nil
}

// tokenize walks buf with strsep.Sep until the cursor is exhausted.
func tokenize(source string, buf []byte, delims string) []report.Field {
	var fields []report.Field
	for i := 0; ; i++ {
		tok, ok := strsep.Sep(&buf, delims)
		if !ok {
			return fields
		}
		fields = append(fields, report.Field{Source: source, Index: i, Value: string(tok)})
	}
}

func trimNewline(data []byte) []byte {
	data = bytes.TrimSuffix(data, []byte("\n"))
	return bytes.TrimSuffix(data, []byte("\r"))
}
