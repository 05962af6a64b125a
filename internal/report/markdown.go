package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter renders a summary as GitHub-flavored Markdown, for
// sharing scan results in issues and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that renders to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCategories(md, summary)
	w.writeDomains(md, summary)
	w.writeFindings(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Dork Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total findings", strconv.Itoa(summary.Total)},
			{"Sensitive hints", strconv.Itoa(summary.Sensitive)},
			{"Fetch errors", strconv.Itoa(summary.Errors)},
		},
	})
	md.PlainText("")

	switch {
	case summary.Sensitive > 0:
		md.Warningf("%d finding(s) carry a sensitive-content hint and should be reviewed first.", summary.Sensitive)
	case summary.Total > 0:
		md.Note("No sensitive-content hints among the findings.")
	default:
		md.Tip("The scan produced no findings.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, summary *Summary) {
	if len(summary.Categories) == 0 {
		return
	}

	md.H2("Findings by Category")
	md.PlainText("")

	rows := make([][]string, len(summary.Categories))
	for i, c := range summary.Categories {
		rows[i] = []string{c.Category, strconv.Itoa(c.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Findings"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(summary.Categories) > 1 {
		w.writePieChart(md, summary)
	}
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings per Category"),
		piechart.WithShowData(true),
	)
	for _, c := range summary.Categories {
		chart.LabelAndIntValue(c.Category, uint64(c.Count)) //nolint:gosec // Counts are non-negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, summary *Summary) {
	if len(summary.TopDomains) == 0 {
		return
	}

	md.H2("Top Domains")
	md.PlainText("")

	rows := make([][]string, len(summary.TopDomains))
	for i, d := range summary.TopDomains {
		rows[i] = []string{"`" + d.Domain + "`", strconv.Itoa(d.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Findings"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, summary *Summary) {
	if len(summary.Findings) == 0 {
		return
	}

	md.H2("Findings")
	md.PlainText("")

	rows := make([][]string, len(summary.Findings))
	for i, f := range summary.Findings {
		status := "-"
		if f.Status != nil {
			status = f.Status.String()
		}
		hint := ""
		if f.SensitiveHint {
			hint = "⚠️"
		}
		rows[i] = []string{
			f.Category,
			clip(f.URL, 80),
			status,
			clip(f.Title, 50),
			hint,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "URL", "Status", "Title", "Sensitive"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by gds on %s*", time.Now().Format("2006-01-02 15:04:05 MST"))
}
