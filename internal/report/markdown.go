package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/newsfilter/internal/model"
)

// MarkdownWriter outputs results as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the document.
func (w *MarkdownWriter) Write(results []model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(results)

	md.H1("Jaundice Rate Report")
	md.PlainText("")

	w.writeAlert(md, summary)
	w.writeResults(md, results)
	w.writeSummary(md, summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary Summary) {
	switch {
	case summary.Total == 0:
		md.Note("No articles were requested.")
	case summary.Rated == 0:
		md.Cautionf("None of the %d articles could be rated.", summary.Total)
	case summary.Failed() > 0:
		md.Warningf("%d of %d articles could not be rated.", summary.Failed(), summary.Total)
	default:
		md.Tip("All articles were rated.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []model.Result) {
	if len(results) == 0 {
		return
	}

	md.H2("Articles")
	md.PlainText("")

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		score, words := "-", "-"
		if r.Score != nil {
			score = strconv.FormatFloat(*r.Score, 'f', 2, 64)
		}
		if r.WordsCount != nil {
			words = strconv.Itoa(*r.WordsCount)
		}
		rows = append(rows, []string{r.URL, "`" + r.Status.String() + "`", score, words})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Score", "Words"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary Summary) {
	if summary.Total == 0 {
		return
	}

	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Articles", strconv.Itoa(summary.Total)},
			{"Rated", strconv.Itoa(summary.Rated)},
			{"Average score", strconv.FormatFloat(summary.AverageScore, 'f', 2, 64)},
		},
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Processing Status"),
		piechart.WithShowData(true),
	)
	for _, status := range model.AllStatuses() {
		if n := summary.ByStatus[status]; n > 0 {
			chart.LabelAndIntValue(status.String(), uint64(n))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
