// Package engine drives the countdown reducer.
//
// ARCHITECTURE:
//
// Single-Writer Command Loop:
// The engine owns the only mutable countdown.State and applies commands in
// a single goroutine. User commands (set, start, pause, reset) and internal
// ticks arrive through one FIFO queue, so no tick ever overlaps a command or
// another tick.
//
// Command Processing Flow:
//  1. Callers Enqueue() commands from any goroutine
//  2. Run() (or Drain() in tests) dequeues one command at a time
//  3. The matching countdown transition computes the next state and effects
//  4. Effects run in a fixed order: cancel tick, cue, arm tick, notify,
//     render, journal
//
// CANCEL-ON-RESCHEDULE:
// A tick is a one-shot timer armed for one interval. Every armed tick
// carries the generation that was current when it was armed. Cancelling
// stops the pending handle and bumps the generation, so a timer that fires
// anyway after Stop() lost the race is dropped when its stale generation
// reaches the loop. At most one live tick exists at any time.
//
// Logical Clock:
// Every applied command is stamped with a monotonic seq from Clock.Next().
// Journal ordering uses seq, never wall-clock timestamps.
package engine
