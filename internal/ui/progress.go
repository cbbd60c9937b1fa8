package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/desertthunder/albumdiff/internal/tasks"
)

// RenderUpdate formats a single progress update as one line.
func RenderUpdate(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.Dispatch:
		return styles.title.Render(u.Message)
	case tasks.ProcessArtist:
		o, ok := u.Data.(tasks.Outcome)
		if !ok {
			return u.Message
		}
		switch o.Kind {
		case tasks.OutcomeFatal:
			return styles.err.Render(u.Message)
		case tasks.OutcomeNotFound, tasks.OutcomeCancelled:
			return styles.warn.Render(u.Message)
		default:
			return u.Message
		}
	case tasks.Complete:
		return styles.ok.Render(u.Message)
	default:
		return u.Message
	}
}

// Watch writes every update received on updates to w until the channel is closed.
func Watch(w io.Writer, updates <-chan tasks.ProgressUpdate) {
	for u := range updates {
		fmt.Fprintln(w, RenderUpdate(u))
	}
}

// RenderSummary formats the totals of a finished run. A non-nil err marks the run as failed.
func RenderSummary(res *tasks.RunResult, err error) string {
	if res == nil {
		if err != nil {
			return styles.err.Render(fmt.Sprintf("Run failed: %v", err))
		}
		return styles.err.Render("No result available")
	}

	var title string
	switch {
	case err != nil:
		title = styles.err.Render("✗ Run finished with errors")
	case res.Cancelled > 0:
		title = styles.warn.Render("- Run interrupted")
	default:
		title = styles.ok.Render("✓ Run complete")
	}

	var b strings.Builder
	b.WriteString(title)
	fmt.Fprintf(&b, "\nArtists: %d\nReported: %d\nUp to date: %d", res.Jobs, res.Reports, res.UpToDate)
	if res.NotFound > 0 {
		fmt.Fprintf(&b, "\n%s", styles.warn.Render(fmt.Sprintf("Not in catalog: %d", res.NotFound)))
	}
	if res.Failed > 0 {
		fmt.Fprintf(&b, "\n%s", styles.err.Render(fmt.Sprintf("Failed: %d", res.Failed)))
	}
	if res.Cancelled > 0 {
		fmt.Fprintf(&b, "\n%s", styles.warn.Render(fmt.Sprintf("Cancelled: %d", res.Cancelled)))
	}
	fmt.Fprintf(&b, "\n%s", styles.help.Render(fmt.Sprintf("run %s in %s", res.RunID, res.Elapsed.Round(time.Millisecond))))
	return b.String()
}
