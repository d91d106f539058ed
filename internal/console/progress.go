// Package console renders pipeline progress on the terminal: per-track
// percentage updates plus periodic elapsed/remaining estimates for the slow,
// rate-limited stages.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// detailEvery controls how often Detail prints the full timing block.
const detailEvery = 5

// Reporter tracks progress through a fixed number of items.
type Reporter struct {
	out       io.Writer
	total     int
	processed int
	start     time.Time
	now       func() time.Time
}

// NewReporter returns a Reporter for total items writing to out.
func NewReporter(out io.Writer, total int) *Reporter {
	return &Reporter{
		out:   out,
		total: total,
		start: time.Now(),
		now:   time.Now,
	}
}

// Step records one processed item and rewrites the progress line.
func (r *Reporter) Step(message string) {
	r.processed++
	pct := 0.0
	if r.total > 0 {
		pct = float64(r.processed) / float64(r.total) * 100
	}
	fmt.Fprintf(r.out, "\r%s - %.1f%% complete", message, pct)
	if r.processed >= r.total {
		fmt.Fprintln(r.out, "\nDone!")
	}
}

// Detail records one processed item and, every few items and on the last one,
// prints the current item plus elapsed and estimated remaining time.
func (r *Reporter) Detail(item string) {
	r.processed++
	if r.processed%detailEvery != 0 && r.processed != r.total {
		return
	}

	elapsed := r.now().Sub(r.start)
	perItem := elapsed / time.Duration(r.processed)
	remaining := perItem * time.Duration(r.total-r.processed)

	pct := float64(r.processed) / float64(r.total) * 100
	fmt.Fprintf(r.out, "\nProgress: %d/%d tracks (%.1f%%)\n", r.processed, r.total, pct)
	fmt.Fprintf(r.out, "Current track: %s\n", item)
	fmt.Fprintf(r.out, "Time elapsed: %s\n", FormatDuration(elapsed))
	fmt.Fprintf(r.out, "Estimated time remaining: %s\n", FormatDuration(remaining))
}

// FormatDuration renders a duration as H:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// Headerf prints a highlighted section header.
func Headerf(out io.Writer, format string, args ...interface{}) {
	color.New(color.FgCyan, color.Bold).Fprintf(out, format+"\n", args...)
}

// Successf prints a green status line.
func Successf(out io.Writer, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(out, format+"\n", args...)
}

// Warnf prints a yellow status line.
func Warnf(out io.Writer, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(out, format+"\n", args...)
}
