package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/tasks"
)

func TestRenderUpdate(t *testing.T) {
	tc := []struct {
		name   string
		update tasks.ProgressUpdate
	}{
		{name: "dispatch", update: tasks.ProgressUpdate{Phase: tasks.Dispatch, Message: "Dispatching 3 artists to 2 workers..."}},
		{name: "ok", update: tasks.ProgressUpdate{
			Phase:   tasks.ProcessArtist,
			Message: "[1/3] ✓ Radiohead",
			Data:    tasks.Outcome{Kind: tasks.OutcomeOK, Job: models.Job{Artist: "Radiohead"}},
		}},
		{name: "fatal", update: tasks.ProgressUpdate{
			Phase:   tasks.ProcessArtist,
			Message: "[2/3] ✗ Portishead",
			Data:    tasks.Outcome{Kind: tasks.OutcomeFatal, Job: models.Job{Artist: "Portishead"}},
		}},
		{name: "without data", update: tasks.ProgressUpdate{Phase: tasks.ProcessArtist, Message: "[3/3] ? Nobody"}},
		{name: "complete", update: tasks.ProgressUpdate{Phase: tasks.Complete, Message: "Done in 1s"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderUpdate(tt.update); !strings.Contains(got, tt.update.Message) {
				t.Errorf("expected %q in %q", tt.update.Message, got)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	updates := make(chan tasks.ProgressUpdate, 3)
	updates <- tasks.ProgressUpdate{Phase: tasks.Dispatch, Message: "first"}
	updates <- tasks.ProgressUpdate{Phase: tasks.Complete, Message: "second"}
	close(updates)

	var buf bytes.Buffer
	Watch(&buf, updates)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	res := &tasks.RunResult{RunID: "abc", Jobs: 4, Reports: 2, UpToDate: 1, NotFound: 1, Elapsed: 1500 * time.Millisecond}

	t.Run("complete", func(t *testing.T) {
		got := RenderSummary(res, nil)
		for _, want := range []string{"Run complete", "Artists: 4", "Reported: 2", "Up to date: 1", "Not in catalog: 1", "run abc in 1.5s"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in summary %q", want, got)
			}
		}
		if strings.Contains(got, "Failed") {
			t.Errorf("did not expect failures in %q", got)
		}
	})

	t.Run("with failures", func(t *testing.T) {
		failed := *res
		failed.Failed = 1
		got := RenderSummary(&failed, errors.New("1 of 4 artists failed"))
		if !strings.Contains(got, "finished with errors") || !strings.Contains(got, "Failed: 1") {
			t.Errorf("unexpected summary %q", got)
		}
	})

	t.Run("interrupted", func(t *testing.T) {
		cancelled := *res
		cancelled.Cancelled = 2
		got := RenderSummary(&cancelled, nil)
		if !strings.Contains(got, "interrupted") || !strings.Contains(got, "Cancelled: 2") {
			t.Errorf("unexpected summary %q", got)
		}
	})

	t.Run("no result", func(t *testing.T) {
		if got := RenderSummary(nil, errors.New("boom")); !strings.Contains(got, "boom") {
			t.Errorf("unexpected summary %q", got)
		}
	})
}
