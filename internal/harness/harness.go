package harness

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/meditimer/internal/engine"
	"github.com/roach88/meditimer/internal/render"
	"github.com/roach88/meditimer/internal/testutil"
)

type traceRenderer struct {
	lines []string
}

func (t *traceRenderer) Render(s engine.Snapshot) {
	t.lines = append(t.lines, render.Line(s))
}

// Run executes a scenario on a fresh engine and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with engine logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	ticks := engine.NewManualTicks()
	trace := &traceRenderer{}
	counter := &testutil.CueCounter{}
	notifier := &testutil.Notifications{}

	opts := []engine.Option{
		engine.WithTickSource(ticks),
		engine.WithSessionIDs(testutil.NewSequentialSessions(scenario.Name)),
		engine.WithRenderer(trace),
		engine.WithCue(counter),
		engine.WithNotifier(notifier),
		engine.WithLogger(logger),
	}
	if scenario.ValidationMessage != "" {
		opts = append(opts, engine.WithValidationMessage(scenario.ValidationMessage))
	}
	if scenario.Duration > 0 {
		opts = append(opts, engine.WithInitialDuration(scenario.Duration))
	}
	eng := engine.New(opts...)
	defer eng.Stop()

	ctx := context.Background()
	result := &Result{Pass: true}
	trace.Render(eng.Snapshot())

	for i, step := range scenario.Steps {
		switch step.kind() {
		case "set":
			eng.Enqueue(engine.SetDuration(*step.Set))
		case "start":
			eng.Enqueue(engine.Start())
		case "pause":
			eng.Enqueue(engine.Pause())
		case "reset":
			eng.Enqueue(engine.Reset())
		case "tick":
			for n := 0; n < step.Tick; n++ {
				if fired := ticks.Fire(); fired > 1 {
					result.AddError("step %d: %d ticks armed at once", i+1, fired)
				}
				eng.Drain(ctx)
			}
			continue
		case "fire_stopped":
			ticks.FireStopped()
		}
		eng.Drain(ctx)
	}

	result.Trace = trace.lines
	result.Final = eng.Snapshot()
	result.CuePlays = counter.Plays()
	result.CueStops = counter.Stops()
	result.Notifications = notifier.Count()

	if scenario.Expect != nil {
		checkExpect(scenario.Expect, result)
	}
	return result, nil
}

func checkExpect(want *Expect, r *Result) {
	s := r.Final.State
	if want.Remaining != nil && *want.Remaining != s.Remaining {
		r.AddError("remaining: expected %d, got %d", *want.Remaining, s.Remaining)
	}
	if want.Display != "" && want.Display != s.Display() {
		r.AddError("display: expected %q, got %q", want.Display, s.Display())
	}
	if want.Phase != "" && want.Phase != s.Phase().String() {
		r.AddError("phase: expected %s, got %s", want.Phase, s.Phase())
	}
	if want.Running != nil && *want.Running != s.Running {
		r.AddError("running: expected %t, got %t", *want.Running, s.Running)
	}
	if want.Paused != nil && *want.Paused != s.Paused {
		r.AddError("paused: expected %t, got %t", *want.Paused, s.Paused)
	}
	if want.Alert != nil && *want.Alert != s.Alert {
		r.AddError("alert: expected %t, got %t", *want.Alert, s.Alert)
	}
	if want.CuePlays != nil && *want.CuePlays != r.CuePlays {
		r.AddError("cue_plays: expected %d, got %d", *want.CuePlays, r.CuePlays)
	}
	if want.CueStops != nil && *want.CueStops != r.CueStops {
		r.AddError("cue_stops: expected %d, got %d", *want.CueStops, r.CueStops)
	}
	if want.Notifications != nil && *want.Notifications != r.Notifications {
		r.AddError("notifications: expected %d, got %d", *want.Notifications, r.Notifications)
	}
	if s.Running && s.Paused {
		r.AddError("invariant: running and paused both set")
	}
	if s.Remaining < 0 {
		r.AddError("invariant: negative remaining %d", s.Remaining)
	}
}
