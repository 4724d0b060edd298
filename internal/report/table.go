package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// twoColumnTable renders rows in the rounded style every report table
// uses. numericColumn, when 0 or 1, names the column of counts or stage
// numbers to right-align; pass -1 for all-text tables.
func twoColumnTable(headers [2]string, rows [][2]string, numericColumn int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{headers[0], headers[1]})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}

	configs := make([]table.ColumnConfig, 0, 2)
	for i := 0; i < 2; i++ {
		align := text.AlignLeft
		if i == numericColumn {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
