package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return red("ERR")
	case model.SeverityWarning:
		return yellow("WRN")
	default:
		return blue("INF")
	}
}

// WriteConsole prints the findings table and a summary line.
func WriteConsole(w io.Writer, r *model.Report) {
	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "\n%s\n", green("No issues found."))
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sev", "Category", "Location", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, f := range SortForDisplay(r.Findings) {
		table.Append([]string{
			severityLabel(f.Severity),
			string(f.Category),
			f.Location(),
			f.Message,
		})
	}

	fmt.Fprintln(w)
	table.Render()

	fmt.Fprintf(w, "\n%s %s, %s, %s (%d total)\n",
		bold("Summary:"),
		red(fmt.Sprintf("%d errors", r.ErrorCount())),
		yellow(fmt.Sprintf("%d warnings", r.WarningCount())),
		blue(fmt.Sprintf("%d info", r.InfoCount())),
		len(r.Findings))
}
