// Package harness runs scripted countdown scenarios against the real engine.
//
// A scenario is a YAML list of steps (set, start, pause, reset, tick) and a
// final expectation. Ticks come from an engine.ManualTicks source, so a
// scenario that takes ten minutes of wall time runs instantly and produces
// the same trace every time. Traces are one render.Line per applied command
// and can be compared against golden files.
package harness
