package testutil

import "sync/atomic"

// Cue is the engine.Cue contract, repeated here so testutil stays free of
// engine and audio imports.
type Cue interface {
	Play() error
	Stop() error
}

// CueCounter counts plays and stops, optionally forwarding to another cue.
//
// Thread-safety: safe for concurrent use.
type CueCounter struct {
	Next Cue

	plays atomic.Int32
	stops atomic.Int32
}

// Play counts and forwards.
func (c *CueCounter) Play() error {
	c.plays.Add(1)
	if c.Next != nil {
		return c.Next.Play()
	}
	return nil
}

// Stop counts and forwards.
func (c *CueCounter) Stop() error {
	c.stops.Add(1)
	if c.Next != nil {
		return c.Next.Stop()
	}
	return nil
}

// Plays returns how many times Play was called.
func (c *CueCounter) Plays() int { return int(c.plays.Load()) }

// Stops returns how many times Stop was called.
func (c *CueCounter) Stops() int { return int(c.stops.Load()) }
