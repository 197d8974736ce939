package display

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subauto/internal/history"
	"subauto/internal/pipeline"
)

// RenderSummary formats the end-of-run totals as a table.
func RenderSummary(summary *pipeline.Summary, logDir string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Run Summary", ""})
	tw.AppendRows([]table.Row{
		{"Total videos", summary.Total},
		{"Succeeded", summary.Succeeded},
		{"Failed", summary.Failed},
		{"Elapsed", summary.Elapsed.Round(time.Second)},
	})
	if logDir != "" {
		tw.AppendRow(table.Row{"Logs", logDir})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	return tw.Render()
}

// RenderHistory formats past runs, newest first.
func RenderHistory(runs []history.RunRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Session", "Started", "Language", "Total", "OK", "Failed"})
	for _, run := range runs {
		language := run.OutputLanguage
		if run.InputLanguage != "" {
			language = fmt.Sprintf("%s -> %s", run.InputLanguage, run.OutputLanguage)
		}
		tw.AppendRow(table.Row{
			run.SessionID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			language,
			run.Total,
			run.Succeeded,
			run.Failed,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
