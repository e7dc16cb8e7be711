// Package report renders analysis results for people: progress lines,
// statistics blocks, batch summaries and graphs.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zsiec/vq/internal/analysis"
	apperrors "github.com/zsiec/vq/internal/errors"
)

const (
	progressWidth = 60
	topValues     = 5
)

// Tally counts the files of a batch by outcome.
type Tally struct {
	OK      []string
	NOK     []string
	Skipped []string
	Errors  []string
}

// Printer writes human-readable reports to out.
type Printer struct {
	out    io.Writer
	styles Styles
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{
		out:    out,
		styles: NewStyles(color),
	}
}

// Header prints word underlined with dashes, preceded by a blank line.
func (p *Printer) Header(word string) {
	fmt.Fprintf(p.out, "\n%s\n%s\n", p.styles.Header.Render(word), strings.Repeat("-", len(word)))
}

func progressPrefix(name string) string {
	s := "Reading " + name
	if len(s) < progressWidth {
		s += strings.Repeat(".", progressWidth-len(s))
	}
	return s
}

// Verdict renders a pass/fail flag.
func (p *Printer) Verdict(passed bool) string {
	if passed {
		return p.styles.OK.Render("OK")
	}
	return p.styles.NOK.Render("NOK")
}

// Progress prints the one-line outcome of a clip.
func (p *Printer) Progress(name string, elapsed time.Duration, res *analysis.Result) {
	fmt.Fprintf(p.out, "%s%.3f s\t%s\tSync achieved @ %2d fps\n",
		progressPrefix(name), elapsed.Seconds(), p.Verdict(res.Passed), res.Best.FPS)
}

// ProgressError prints the one-line outcome of a file that could not be analyzed.
func (p *Printer) ProgressError(name string, err error) {
	label := "error"
	if apperrors.Classify(err) == apperrors.OutcomeSkipped {
		label = "skipped"
	}
	fmt.Fprintf(p.out, "%s%s\t%s\n",
		progressPrefix(name), p.styles.Warning.Render(label), p.styles.Muted.Render(string(apperrors.TypeOf(err))))
}

func (p *Printer) field(label string, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s = %s\n", p.styles.Label.Render(label), p.styles.Value.Render(fmt.Sprintf(format, args...)))
}

// Statistics prints the statistics block of one clip.
func (p *Printer) Statistics(file string, res *analysis.Result) {
	st := res.Stats

	p.Header("Statistics")
	p.field("File name", "%s", file)
	p.field("Total", "%d ms", st.TotalMs)
	p.field("Nr entries", "%d", st.Count)
	p.field("Average", "%f ms", st.AverageMs)
	p.field("Average", "%f fps", st.AverageFPS)
	p.field("Min", "%d ms", st.MinMs)
	p.field("Min index", "%d", st.MinIndex)
	p.field("Max", "%d ms", st.MaxMs)
	p.field("Max index", "%d", st.MaxIndex)
	p.field("std dev fps", "%f", st.StdDevFPS)
	p.field("std dev movfps", "%f", st.StdDevMovingFPS)
	p.field("p50/p90/p99", "%.1f / %.1f / %.1f ms", st.P50Ms, st.P90Ms, st.P99Ms)
	p.field("Max debt", "%.1f ms @ %d fps", res.MaxDebtMs, res.TargetFPS)
	if res.LongestViolation > 0 {
		p.field("Longest violation", "%d frames from frame %d", res.LongestViolation, res.LongestViolationStart)
	} else {
		p.field("Longest violation", "none")
	}

	n := len(res.Histogram)
	if n > topValues {
		n = topValues
	}
	values := make([]string, n)
	for i, bin := range res.Histogram[:n] {
		values[i] = fmt.Sprintf("%d ms x%d", bin.Value, bin.Count)
	}
	p.field("Most frequent", "%s", strings.Join(values, ", "))
}

// Summary prints the batch tally.
func (p *Printer) Summary(t Tally) {
	p.Header("Summary")
	fmt.Fprintf(p.out, "NOK: %s\n", p.styles.NOK.Render(fmt.Sprint(len(t.NOK))))
	fmt.Fprintf(p.out, "OK:  %s\n", p.styles.OK.Render(fmt.Sprint(len(t.OK))))
	if len(t.Skipped) > 0 {
		fmt.Fprintf(p.out, "Skipped: %d\n", len(t.Skipped))
	}
	if len(t.Errors) > 0 {
		fmt.Fprintf(p.out, "Errors:  %d\n", len(t.Errors))
	}
	for _, name := range t.NOK {
		fmt.Fprintf(p.out, "  %s %s\n", p.styles.NOK.Render("x"), name)
	}
}

// Usage writes the command synopsis, the analysis constants in effect and
// the flag descriptions.
func Usage(w io.Writer, params analysis.Params, flagUsages string) {
	fmt.Fprintf(w, "Usage: vq [-s][-g] files\n\n")
	fmt.Fprintf(w, "Checks whether a decoder keeps up with the display rate.\n")
	fmt.Fprintf(w, "  max sync-delay             : %g ms\n", params.SyncThresholdMs)
	fmt.Fprintf(w, "  window                     : %g sec\n", params.SustainSeconds)
	fmt.Fprintf(w, "  samples for moving average : %d\n\n", params.WindowSize)
	fmt.Fprintf(w, "Options:\n%s\n", flagUsages)
	fmt.Fprintf(w, "Exit status: 0 all files OK, 1 usage error, 2 any file NOK or failed.\n")
}
