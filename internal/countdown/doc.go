// Package countdown implements the meditation countdown as a pure reducer.
//
// All state lives in a State value. Each command (SetDuration, Start, Pause,
// Reset) and the internal Tick is a function from State to Transition. A
// Transition carries the next State plus the Effects an outer driver must
// execute: arming or cancelling the pending tick, playing or stopping the
// audio cue, and notifying the user of rejected input.
//
// Nothing in this package touches a timer, a speaker or a terminal. The
// engine package owns those and applies Effects after every transition.
//
// INVARIANTS:
//   - Running and Paused are never both true
//   - Remaining is never negative
//   - Tick only decrements while Running && !Paused && Remaining > 0
package countdown
