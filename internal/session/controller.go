// Package session owns the respondent-side countdown: a server-side ticker
// re-evaluates the quiz window on a fixed cadence and streams the state to
// the client. The evaluator itself stays pure; this controller is the only
// place the cadence lives.
package session

import (
	"context"
	"time"

	"github.com/classleaf/quizport/internal/quiz"
)

// DefaultInterval is the re-evaluation cadence while a respondent is present.
const DefaultInterval = time.Second

// Controller periodically re-evaluates a quiz window and publishes the
// result. It never force-submits anything: reaching the closing time only
// stops new attempts from starting.
type Controller struct {
	interval time.Duration
	now      func() time.Time
}

type Option func(*Controller)

// WithInterval overrides the tick cadence.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{interval: DefaultInterval, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Watch streams window states for q until the window has ended (one final
// ended state is sent) or ctx is cancelled. The initial state is sent
// immediately; the channel is closed when the stream stops.
func (c *Controller) Watch(ctx context.Context, q quiz.Quiz) <-chan quiz.WindowState {
	out := make(chan quiz.WindowState, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			state := q.Window(c.now())
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
			if state.Status == quiz.WindowEnded {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
