package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"smat/internal/transform"
)

// renderExplain 以表格列出四个步骤（按执行顺序），不做任何 I/O。
func renderExplain(w io.Writer, tr *transform.Transformer) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Step", "Kind", "Value", "Effective"})
	for i, s := range tr.Steps() {
		val, eff := "-", "(off)"
		if s.Enabled {
			val = fmt.Sprintf("%q", s.Value)
			eff = s.Pattern
			if s.Kind == transform.KindLiteral {
				eff = "verbatim"
			}
		}
		tw.AppendRow(table.Row{i + 1, s.Name, s.Kind, val, eff})
	}
	tw.Render()
}
