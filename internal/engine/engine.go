package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/meditimer/internal/countdown"
)

// Snapshot is the observable result of one applied command.
type Snapshot struct {
	Seq       int64
	SessionID string
	Command   CommandKind
	State     countdown.State
	Effects   countdown.Effect

	// Pulse counts ticks applied since the last Start. Renderers use its
	// parity to alternate the alert treatment.
	Pulse int

	// Err is the rejection for a refused SetDuration, nil otherwise.
	Err error
}

// Display returns the remaining time as MM:SS.
func (s Snapshot) Display() string {
	return s.State.Display()
}

// Phase returns the derived countdown phase.
func (s Snapshot) Phase() countdown.Phase {
	return s.State.Phase()
}

// Renderer draws the display after every applied command.
type Renderer interface {
	Render(Snapshot)
}

// Cue is the audio alert played once when the countdown reaches zero.
type Cue interface {
	Play() error
	Stop() error
}

// Notifier surfaces rejected input to the user.
type Notifier interface {
	Notify(err error)
}

// Entry is one journal row describing an applied command.
type Entry struct {
	Seq       int64
	SessionID string
	Command   string
	Input     string
	Remaining int
	Phase     string
	At        time.Time
}

// Journal records applied commands. Write failures are logged, never fatal.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// Engine is the single-writer countdown driver.
//
// Thread-safety model:
//   - Enqueue(), Snapshot(), Stop(), StopWhenIdle(): safe from any goroutine
//   - Run() or Drain(): must be called from exactly one goroutine
type Engine struct {
	clock    *Clock
	queue    *commandQueue
	ticks    TickSource
	interval time.Duration
	sessions SessionIDGenerator
	now      func() time.Time
	logger   *slog.Logger

	renderer Renderer
	cue      Cue
	notifier Notifier
	journal  Journal

	validationMessage string

	// Owned by the loop goroutine.
	state      countdown.State
	session    string
	pending    Timer
	generation uint64
	pulse      int

	// settling is set by StopWhenIdle; the loop closes the queue once no
	// tick is pending.
	settling atomic.Bool

	mu   sync.Mutex
	last Snapshot
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickSource replaces the wall-clock tick source.
func WithTickSource(ts TickSource) Option {
	return func(e *Engine) { e.ticks = ts }
}

// WithTickInterval overrides the one-second tick spacing.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithClock sets the logical clock, e.g. to continue a journal's numbering.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSessionIDs sets the session id generator.
func WithSessionIDs(g SessionIDGenerator) Option {
	return func(e *Engine) { e.sessions = g }
}

// WithRenderer sets the display.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithCue sets the audio alert.
func WithCue(c Cue) Option {
	return func(e *Engine) { e.cue = c }
}

// WithNotifier sets the rejected-input sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithJournal enables command journaling.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithValidationMessage replaces the message shown for rejected durations.
func WithValidationMessage(msg string) Option {
	return func(e *Engine) { e.validationMessage = msg }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNow sets the wall clock used for journal timestamps.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithInitialDuration commits a duration before any command is processed.
// Invalid values are ignored.
func WithInitialDuration(seconds int) Option {
	return func(e *Engine) {
		if tr := countdown.SetDurationSeconds(e.state, seconds); tr.Err == nil {
			e.state = tr.State
		}
	}
}

// New creates an Engine in the mount state.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:    NewClock(),
		queue:    newCommandQueue(),
		ticks:    SystemTicks,
		interval: TickInterval,
		sessions: UUIDv7Generator{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.state.HasConfigured {
		e.session = e.sessions.Generate()
	}
	e.last = Snapshot{SessionID: e.session, State: e.state}

	return e
}

// Enqueue submits a command for the loop. Returns false once stopped.
// User code cannot enqueue ticks; those come only from armed timers.
func (e *Engine) Enqueue(c Command) bool {
	if c.Kind == CmdTick || c.Kind == cmdSettle {
		return false
	}
	return e.queue.Enqueue(c)
}

// Snapshot returns the result of the most recently applied command.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Run starts the single-writer loop and blocks until ctx is cancelled or
// Stop() is called. Any pending tick is cancelled on the way out.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "remaining", e.state.Remaining)
	defer e.cancelTick()

	e.renderCurrent()

	for {
		if c, ok := e.queue.TryDequeue(); ok {
			e.apply(ctx, c)
			e.closeIfSettled()
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes with the queue, so a closed and
			// drained queue ends the loop.
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Drain applies every queued command on the calling goroutine and returns
// how many were applied. It is the synchronous alternative to Run for tests
// and scripted scenarios and must never run concurrently with Run.
func (e *Engine) Drain(ctx context.Context) int {
	n := 0
	for {
		c, ok := e.queue.TryDequeue()
		if !ok {
			return n
		}
		e.apply(ctx, c)
		e.closeIfSettled()
		n++
	}
}

// Stop closes the queue, which makes Run return.
func (e *Engine) Stop() {
	e.queue.Close()
}

// StopWhenIdle lets a running countdown finish and then closes the queue.
// If no tick is pending the queue closes as soon as the loop sees the
// request. Commands already queued are still applied.
func (e *Engine) StopWhenIdle() {
	e.settling.Store(true)
	// Wakes the loop so an idle engine notices the request.
	e.queue.Enqueue(Command{Kind: cmdSettle})
}

func (e *Engine) closeIfSettled() {
	if e.settling.Load() && e.pending == nil {
		e.queue.Close()
	}
}

// apply runs one command through the reducer and executes its effects.
//
// Thread-safety: loop goroutine only (Run or Drain). It owns state, session,
// pending, generation and pulse without locking; only the published
// Snapshot is guarded by mu.
//
// INVARIANTS:
//   - A tick is applied only if its generation equals the current one
//   - Effects run in a fixed order: cancel tick, stop cue, play cue, arm
//     tick, notify, then render and journal
//   - EffectCancelTick always runs before EffectArmTick, so at most one
//     timer is live after apply returns
//   - Every applied command gets exactly one Seq, one render and one
//     journal row; dropped ticks get none
func (e *Engine) apply(ctx context.Context, c Command) {
	if c.Kind == cmdSettle {
		return
	}
	if c.Kind == CmdTick && c.generation != e.generation {
		e.logger.Debug("dropping stale tick",
			"tick_generation", c.generation,
			"generation", e.generation,
		)
		return
	}

	prev := e.state
	var tr countdown.Transition
	switch c.Kind {
	case CmdSetDuration:
		tr = countdown.SetDuration(e.state, c.Input)
	case CmdStart:
		tr = countdown.Start(e.state)
	case CmdPause:
		tr = countdown.Pause(e.state)
	case CmdReset:
		tr = countdown.Reset(e.state)
	case CmdTick:
		// The timer that produced this tick has fired; it is no longer pending.
		e.pending = nil
		tr = countdown.Tick(e.state)
	default:
		e.logger.Warn("unknown command", "kind", int(c.Kind))
		return
	}

	if tr.Effects.Has(countdown.EffectCancelTick) {
		e.cancelTick()
	}

	e.state = tr.State
	if c.Kind == CmdSetDuration && tr.Err == nil {
		e.session = e.sessions.Generate()
	}
	switch {
	case c.Kind == CmdStart && tr.Effects.Has(countdown.EffectArmTick):
		e.pulse = 0
	case c.Kind == CmdTick && tr.Changed(prev):
		e.pulse++
	}

	if tr.Effects.Has(countdown.EffectStopCue) && e.cue != nil {
		if err := e.cue.Stop(); err != nil {
			e.logger.Warn("cue stop failed", "error", err)
		}
	}
	if tr.Effects.Has(countdown.EffectPlayCue) && e.cue != nil {
		if err := e.cue.Play(); err != nil {
			e.logger.Warn("cue play failed", "error", err)
		}
	}
	if tr.Effects.Has(countdown.EffectArmTick) {
		e.armTick()
	}

	err := e.rewordValidation(tr.Err)
	if tr.Effects.Has(countdown.EffectNotify) && e.notifier != nil {
		e.notifier.Notify(err)
	}

	snap := Snapshot{
		Seq:       e.clock.Next(),
		SessionID: e.session,
		Command:   c.Kind,
		State:     e.state,
		Effects:   tr.Effects,
		Pulse:     e.pulse,
		Err:       err,
	}
	e.mu.Lock()
	e.last = snap
	e.mu.Unlock()

	attrs := []any{
		"seq", snap.Seq,
		"command", c.Kind.String(),
		"remaining", e.state.Remaining,
		"phase", e.state.Phase().String(),
		"effects", tr.Effects.String(),
	}
	if err != nil {
		e.logger.Info("command rejected", append(attrs, "error", err)...)
	} else if c.Kind == CmdTick {
		e.logger.Debug("tick applied", attrs...)
	} else {
		e.logger.Info("command applied", attrs...)
	}

	if e.renderer != nil {
		e.renderer.Render(snap)
	}
	e.record(ctx, c, snap)
}

// armTick schedules the next tick under the current generation.
//
// Thread-safety: loop goroutine only. The timer callback runs on the tick
// source's goroutine and touches nothing but the queue.
//
// INVARIANTS:
//   - pending is nil on entry (the reducer never arms while a tick is live)
//   - The queued tick carries the generation captured here, never a later one
func (e *Engine) armTick() {
	gen := e.generation
	e.pending = e.ticks.AfterFunc(e.interval, func() {
		e.queue.Enqueue(tick(gen))
	})
}

// cancelTick stops the pending tick and invalidates any tick already queued.
//
// Thread-safety: loop goroutine only.
//
// INVARIANTS:
//   - pending is nil on return
//   - generation strictly increases, so a tick that fired before Stop took
//     effect is dropped by apply
func (e *Engine) cancelTick() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	e.generation++
}

func (e *Engine) renderCurrent() {
	if e.renderer != nil {
		e.renderer.Render(e.Snapshot())
	}
}

func (e *Engine) rewordValidation(err error) error {
	if err == nil || e.validationMessage == "" {
		return err
	}
	var ve *countdown.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	reworded := *ve
	reworded.Message = e.validationMessage
	return &reworded
}

func (e *Engine) record(ctx context.Context, c Command, snap Snapshot) {
	if e.journal == nil {
		return
	}
	entry := Entry{
		Seq:       snap.Seq,
		SessionID: snap.SessionID,
		Command:   c.Kind.String(),
		Input:     c.Input,
		Remaining: snap.State.Remaining,
		Phase:     snap.State.Phase().String(),
		At:        e.now(),
	}
	if err := e.journal.Record(ctx, entry); err != nil {
		e.logger.Error("journal write failed",
			"seq", entry.Seq,
			"command", entry.Command,
			"error", err,
		)
	}
}
