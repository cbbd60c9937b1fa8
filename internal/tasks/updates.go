package tasks

import (
	"fmt"
	"time"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Dispatch Phase = iota
	ProcessArtist
	Complete
)

func (p Phase) String() string {
	switch p {
	case Dispatch:
		return "dispatch"
	case ProcessArtist:
		return "process_artist"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func dispatchUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Dispatch,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Dispatching %d artists to %d workers...", total, workers),
	}
}

func artistUpdate(step, total int, o Outcome) ProgressUpdate {
	mark := "✓"
	switch o.Kind {
	case OutcomeNotFound:
		mark = "?"
	case OutcomeFatal:
		mark = "✗"
	case OutcomeCancelled:
		mark = "-"
	}
	return ProgressUpdate{
		Phase:   ProcessArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, o.Job.Artist),
		Data:    o,
	}
}

func completeUpdate(res *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Step:  res.Jobs,
		Total: res.Jobs,
		Message: fmt.Sprintf("Done in %s: %d reports, %d not found, %d failed",
			res.Elapsed.Round(time.Millisecond), res.Reports, res.NotFound, res.Failed),
		Data: res,
	}
}
