package report

import "io"

// Writer renders a summary to some output format.
type Writer interface {
	// Write renders the summary. Returns the number of bytes written.
	Write(summary *Summary) (int, error)
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
