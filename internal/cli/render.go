package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/noah-isme/campus-allocator/pkg/export"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// render writes payload as JSON, or data as CSV or a table. summary is printed under the
// table only.
func (c *Context) render(payload interface{}, data export.Dataset, summary string) error {
	switch c.Format {
	case FormatCSV:
		return (&export.CSVExporter{Comma: ','}).Write(c.Out, data)
	case FormatTable:
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers(data.Headers...).
			Rows(data.Records()...)
		if data.Title != "" {
			fmt.Fprintln(c.Out, titleStyle.Render(data.Title))
		}
		fmt.Fprintln(c.Out, t.Render())
		if summary != "" {
			fmt.Fprintln(c.Out, summaryStyle.Render(summary))
		}
		return nil
	default:
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
}
