// Package ui renders run progress and the end-of-run summary for the terminal.
//
// Output is styled with lipgloss; colors are dropped automatically when the
// destination is not a terminal. Nothing here is interactive: [Watch] drains a
// progress channel from [tasks.Reconciler] and [RenderSummary] formats its result.
package ui
