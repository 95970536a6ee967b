package countdown

// Phase is the derived lifecycle position of a countdown.
type Phase int

const (
	// PhaseIdle means not running. Remaining is either a freshly committed
	// duration or 0 before anything was ever configured.
	PhaseIdle Phase = iota
	// PhaseRunning means ticks are decrementing Remaining.
	PhaseRunning
	// PhasePaused means ticks are suspended with Remaining retained.
	PhasePaused
	// PhaseFinished means a configured countdown reached 0.
	PhaseFinished
)

// String returns the lowercase phase name used in logs and traces.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// State is the complete countdown state.
//
// The zero value is the mount state: idle, nothing configured, 0 remaining.
type State struct {
	// Configured is the last duration committed via SetDuration.
	// Only meaningful when HasConfigured is true.
	Configured    int
	HasConfigured bool

	// Remaining is the number of seconds left. Never negative.
	Remaining int

	Running bool
	Paused  bool

	// Alert drives the pulsing display. Set on Start, cleared when the
	// countdown reaches zero, on Reset and on SetDuration. It has no
	// influence on timing.
	Alert bool
}

// Phase derives the lifecycle phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.Running:
		return PhaseRunning
	case s.Paused:
		return PhasePaused
	case s.Remaining == 0 && s.HasConfigured:
		return PhaseFinished
	default:
		return PhaseIdle
	}
}

// Finished reports whether a configured countdown has reached zero.
func (s State) Finished() bool {
	return s.Phase() == PhaseFinished
}

// Ticking reports whether the tick precondition holds.
func (s State) Ticking() bool {
	return s.Running && !s.Paused && s.Remaining > 0
}

// Display returns Remaining formatted as MM:SS.
func (s State) Display() string {
	return Format(s.Remaining)
}
