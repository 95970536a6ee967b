package countdown

import "strings"

// Effect is a bitmask of side effects the driver must run after a transition.
type Effect uint8

const (
	// EffectCancelTick stops the pending tick handle, if any.
	EffectCancelTick Effect = 1 << iota
	// EffectArmTick schedules the next one-second tick.
	EffectArmTick
	// EffectPlayCue plays the audio cue once.
	EffectPlayCue
	// EffectStopCue stops the audio cue and rewinds it to the start.
	EffectStopCue
	// EffectNotify shows a blocking notification for rejected input.
	EffectNotify
)

// EffectNone is the empty effect set.
const EffectNone Effect = 0

var effectNames = []struct {
	e    Effect
	name string
}{
	{EffectCancelTick, "cancel_tick"},
	{EffectArmTick, "arm_tick"},
	{EffectPlayCue, "play_cue"},
	{EffectStopCue, "stop_cue"},
	{EffectNotify, "notify"},
}

// Has reports whether all bits of o are set in e.
func (e Effect) Has(o Effect) bool {
	return o != 0 && e&o == o
}

// String lists the set effects joined by "|", or "none".
func (e Effect) String() string {
	if e == EffectNone {
		return "none"
	}
	var parts []string
	for _, n := range effectNames {
		if e.Has(n.e) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Transition is the result of applying one command to a State.
type Transition struct {
	State   State
	Effects Effect

	// Err is set when the command was rejected. State is then unchanged.
	Err error
}

// Changed reports whether the transition produced a different state.
func (t Transition) Changed(prev State) bool {
	return t.State != prev
}
