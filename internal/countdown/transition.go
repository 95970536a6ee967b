package countdown

// SetDuration parses input and commits it as both the configured duration
// and the remaining time. Rejected input leaves s untouched and asks the
// driver to notify the user.
func SetDuration(s State, input string) Transition {
	n, err := ParseDuration(input)
	if err != nil {
		return Transition{State: s, Effects: EffectNotify, Err: err}
	}
	return SetDurationSeconds(s, n)
}

// SetDurationSeconds is SetDuration for an already-parsed value.
func SetDurationSeconds(s State, n int) Transition {
	if n < 1 || n > MaxDuration {
		err := newInvalidDuration("")
		return Transition{State: s, Effects: EffectNotify, Err: err}
	}
	next := State{
		Configured:    n,
		HasConfigured: true,
		Remaining:     n,
	}
	return Transition{State: next, Effects: EffectCancelTick}
}

// Start begins or resumes the countdown. No-op when nothing remains or when
// already running.
func Start(s State) Transition {
	if s.Remaining <= 0 || s.Running {
		return Transition{State: s}
	}
	s.Running = true
	s.Paused = false
	s.Alert = true
	return Transition{State: s, Effects: EffectCancelTick | EffectArmTick}
}

// Pause suspends a running countdown, keeping Remaining. No-op otherwise.
func Pause(s State) Transition {
	if !s.Running {
		return Transition{State: s}
	}
	s.Running = false
	s.Paused = true
	return Transition{State: s, Effects: EffectCancelTick}
}

// Reset stops the countdown and restores the last committed duration,
// or 0 when nothing was ever committed. The cue is stopped and rewound.
func Reset(s State) Transition {
	s.Running = false
	s.Paused = false
	s.Alert = false
	if s.HasConfigured {
		s.Remaining = s.Configured
	} else {
		s.Remaining = 0
	}
	return Transition{State: s, Effects: EffectCancelTick | EffectStopCue}
}

// Tick applies one second of elapsed time.
//
// Outside Running && !Paused && Remaining > 0 it is a no-op with no effects,
// which keeps Remaining floored at 0 if a stale tick slips through.
func Tick(s State) Transition {
	if !s.Ticking() {
		return Transition{State: s}
	}
	s.Remaining--
	if s.Remaining > 0 {
		return Transition{State: s, Effects: EffectArmTick}
	}
	s.Running = false
	s.Alert = false
	return Transition{State: s, Effects: EffectCancelTick | EffectPlayCue}
}
