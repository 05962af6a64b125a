package report

import (
	"fmt"
	"io"
	"strings"
)

// urlDisplayWidth caps URL length in the detailed listing.
const urlDisplayWidth = 100

// TextWriter renders a summary as plain terminal text. Plain ASCII
// rather than ANSI color, so the output pipes cleanly into files and
// pagers.
type TextWriter struct {
	baseWriter

	// detailed enables the per-finding listing after the aggregate
	// sections.
	detailed bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithDetails enables the per-finding listing.
func WithDetails(detailed bool) TextWriterOption {
	return func(w *TextWriter) {
		w.detailed = detailed
	}
}

// NewTextWriter creates a TextWriter that renders to output.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *TextWriter) Write(summary *Summary) (int, error) {
	var b strings.Builder

	b.WriteString("Dork Scan Summary\n")
	b.WriteString("=================\n\n")
	fmt.Fprintf(&b, "Total findings:     %d\n", summary.Total)
	fmt.Fprintf(&b, "Sensitive hints:    %d\n", summary.Sensitive)
	fmt.Fprintf(&b, "Fetch errors:       %d\n\n", summary.Errors)

	if len(summary.Categories) > 0 {
		b.WriteString("Findings by category\n")
		b.WriteString("--------------------\n")
		for _, c := range summary.Categories {
			fmt.Fprintf(&b, "  %-30s %d\n", c.Category, c.Count)
		}
		b.WriteString("\n")
	}

	if len(summary.TopDomains) > 0 {
		b.WriteString("Top domains\n")
		b.WriteString("-----------\n")
		for _, d := range summary.TopDomains {
			fmt.Fprintf(&b, "  %-40s %d\n", d.Domain, d.Count)
		}
		b.WriteString("\n")
	}

	if w.detailed && len(summary.Findings) > 0 {
		b.WriteString("Findings\n")
		b.WriteString("--------\n")
		for _, f := range summary.Findings {
			marker := " "
			if f.SensitiveHint {
				marker = "!"
			}
			fmt.Fprintf(&b, "%s [%s] %s\n", marker, f.Category, clip(f.URL, urlDisplayWidth))
			if f.Title != "" {
				fmt.Fprintf(&b, "    title: %s\n", f.Title)
			}
			if f.Error != "" {
				fmt.Fprintf(&b, "    error: %s\n", f.Error)
			}
		}
		b.WriteString("\n")
	}

	return w.output.Write([]byte(b.String()))
}

// clip shortens s to at most maxLen characters with an ellipsis.
func clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
