// Package report renders moxiutil results as ASCII or Markdown tables.
package report

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchbase/moxi-sub001/internal/cstr"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Field is one tokenizer result.
type Field struct {
	Source string
	Index  int
	Value  string
}

// Copy is one duplicated string.
type Copy struct {
	Input  string
	Output string
	Size   uint64 // bytes allocated, terminator included
}

func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Fields renders tokenizer output. Values are quoted so empty fields show.
func Fields(m Mode, fields []Field) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Source", "#", "Field"})
	for _, f := range fields {
		w.AppendRow(table.Row{f.Source, f.Index, strconv.Quote(f.Value)})
	}
	w.AppendFooter(table.Row{"", len(fields), "fields"})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return render(w, m)
}

// Copies renders duplicated strings with their allocation size.
func Copies(m Mode, copies []Copy) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Input", "Copy", "Size"})
	var total uint64
	for _, c := range copies {
		w.AppendRow(table.Row{strconv.Quote(c.Input), strconv.Quote(c.Output), humanize.IBytes(c.Size)})
		total += c.Size
	}
	w.AppendFooter(table.Row{"", "Total", humanize.IBytes(total)})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	return render(w, m)
}

// Allocations renders a Tracker snapshot.
func Allocations(m Mode, s cstr.Stats) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Allocs", "Frees", "Live", "Double frees", "Failed"})
	w.AppendRow(table.Row{s.Allocs, s.Frees, s.Live, s.DoubleFrees, s.Failed})
	return render(w, m)
}
