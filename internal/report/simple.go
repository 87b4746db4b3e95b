package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/newsfilter/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs an aligned plain-text listing.
type SimpleWriter struct {
	baseWriter

	// summary appends status counts and the average score.
	summary bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary toggles the trailing summary block. It is on by default.
func WithSummary(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = show
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		summary:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one block per result, then the summary.
func (w *SimpleWriter) Write(results []model.Result) (int, error) {
	var sb strings.Builder

	for _, r := range results {
		writeResult(&sb, r)
	}

	if w.summary {
		w.writeSummary(&sb, Summarize(results))
	}

	return io.WriteString(w.output, sb.String())
}

// WriteResult outputs a single result block, for streaming use.
func (w *SimpleWriter) WriteResult(r model.Result) (int, error) {
	var sb strings.Builder
	writeResult(&sb, r)
	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs only the summary block for results.
func (w *SimpleWriter) WriteSummary(results []model.Result) (int, error) {
	var sb strings.Builder
	w.writeSummary(&sb, Summarize(results))
	return io.WriteString(w.output, sb.String())
}

func writeResult(sb *strings.Builder, r model.Result) {
	fmt.Fprintf(sb, "URL:    %s\n", r.URL)
	fmt.Fprintf(sb, "Status: %s\n", r.Status)
	if r.Score != nil {
		fmt.Fprintf(sb, "Score:  %.2f\n", *r.Score)
	}
	if r.WordsCount != nil {
		fmt.Fprintf(sb, "Words:  %d\n", *r.WordsCount)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary Summary) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")

	fmt.Fprintf(sb, "Articles: %d  Rated: %d  Failed: %d\n", summary.Total, summary.Rated, summary.Failed())
	for _, status := range model.AllStatuses() {
		if n := summary.ByStatus[status]; n > 0 {
			fmt.Fprintf(sb, "  %-14s %d\n", status.String()+":", n)
		}
	}
	if summary.Rated > 0 {
		fmt.Fprintf(sb, "Average score: %.2f\n", summary.AverageScore)
		if top := summary.MostCharged; top != nil {
			fmt.Fprintf(sb, "Most charged:  %s (%.2f)\n", top.URL, top.ScoreValue())
		}
	}
}
