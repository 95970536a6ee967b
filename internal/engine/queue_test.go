package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueue_FIFO(t *testing.T) {
	q := newCommandQueue()
	q.Enqueue(SetDuration("1"))
	q.Enqueue(Start())
	q.Enqueue(Pause())

	for _, want := range []CommandKind{CmdSetDuration, CmdStart, CmdPause} {
		got, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.Kind)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestCommandQueue_ClosedRejectsEnqueue(t *testing.T) {
	q := newCommandQueue()
	q.Close()
	q.Close() // idempotent

	assert.False(t, q.Enqueue(Start()))
	assert.True(t, q.Closed())

	select {
	case <-q.Wait():
	default:
		t.Fatal("Wait channel should be closed")
	}
}

func TestCommandQueue_SignalsWaiter(t *testing.T) {
	q := newCommandQueue()

	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Enqueue(Reset())
	}()

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("no signal")
	}
	assert.Equal(t, 1, q.Len())
}

func TestCommandQueue_ConcurrentEnqueue(t *testing.T) {
	q := newCommandQueue()
	const goroutines, perGoroutine = 20, 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				q.Enqueue(Start())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, q.Len())
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "set", CmdSetDuration.String())
	assert.Equal(t, "start", CmdStart.String())
	assert.Equal(t, "pause", CmdPause.String())
	assert.Equal(t, "reset", CmdReset.String())
	assert.Equal(t, "tick", CmdTick.String())
	assert.Equal(t, "unknown", CommandKind(0).String())
}
