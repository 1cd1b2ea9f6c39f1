package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderMarkdown writes r as a Markdown document: a summary line followed
// by a diagnostics table, for the CLI's --markdown flag.
func RenderMarkdown(w io.Writer, r *Report) error {
	_, _ = fmt.Fprintf(w, "# dbtlens report\n\n")
	_, _ = fmt.Fprintf(w, "- schema version: %d.%d\n", r.Version.Major, r.Version.Minor)
	_, _ = fmt.Fprintf(w, "- content hash: `%s`\n", r.ContentHash)
	_, _ = fmt.Fprintf(w, "- %d diagnostics (%d errors, %d warnings, %d info) across %d models, %d contracts validated\n\n",
		r.Summary.Total, r.Summary.Errors, r.Summary.Warnings, r.Summary.Info,
		r.Summary.ModelsChecked, r.Summary.ContractsValidated)

	if r.StateComparison != nil {
		sc := r.StateComparison
		_, _ = fmt.Fprintf(w, "- modified: %d, new: %d, deleted: %d, blast radius: %d\n\n",
			len(sc.ModifiedNodeIDs), len(sc.NewNodeIDs), len(sc.DeletedNodeIDs), sc.BlastRadiusCount)
	}

	if len(r.Diagnostics) == 0 {
		_, _ = fmt.Fprintln(w, "No diagnostics.")
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Severity", "Code", "Location", "Message", "Impact"})

	for _, d := range r.Diagnostics {
		loc := d.Location.File
		if d.Location.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Location.Line)
		}
		t.AppendRow(table.Row{
			strings.ToUpper(d.Severity.String()),
			string(d.Code),
			loc,
			d.Message,
			strings.Join(d.Impact, ", "),
		})
	}
	_, _ = fmt.Fprint(w, t.RenderMarkdown())
	return nil
}
