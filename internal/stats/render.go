package stats

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render formats a snapshot as a table with one row per label that has any
// files, followed by a totals footer. Labels with zero files are omitted from
// the body but still contribute to (zero) totals.
func Render(s *Snapshot) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Platform", "Images", "Labels"})

	for _, c := range s.Counts {
		if c.Images == 0 && c.Labels == 0 {
			continue
		}
		tw.AppendRow(table.Row{strings.ToUpper(c.Label), c.Images, c.Labels})
	}
	tw.AppendFooter(table.Row{"TOTAL", s.TotalImages(), s.TotalLabels()})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft, AlignFooter: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
