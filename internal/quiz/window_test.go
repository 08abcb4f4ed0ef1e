package quiz

import (
	"testing"
	"time"
)

func TestEvaluateWindowBoundaries(t *testing.T) {
	open := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	close := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"one second before opening", open.Add(-time.Second), WindowNotStarted},
		{"exactly at opening", open, WindowActive},
		{"mid window", open.Add(30 * time.Minute), WindowActive},
		{"exactly at closing", close, WindowActive},
		{"one second after closing", close.Add(time.Second), WindowEnded},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := EvaluateWindow(open, close, c.now)
			if got.Status != c.want {
				t.Fatalf("status = %q, want %q", got.Status, c.want)
			}
		})
	}
}

func TestEvaluateWindowRemaining(t *testing.T) {
	open := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	close := open.Add(time.Hour)

	before := EvaluateWindow(open, close, open.Add(-90*time.Second))
	if before.Remaining != 90 {
		t.Fatalf("remaining until open = %d, want 90", before.Remaining)
	}

	during := EvaluateWindow(open, close, open.Add(59*time.Minute))
	if during.Remaining != 60 {
		t.Fatalf("remaining until close = %d, want 60", during.Remaining)
	}

	after := EvaluateWindow(open, close, close.Add(time.Minute))
	if after.Remaining != 0 {
		t.Fatalf("ended state carries remaining %d, want 0", after.Remaining)
	}
}
