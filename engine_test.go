package dblog

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLine(n int) []byte {
	return []byte(strings.Repeat("x", n))
}

func TestEngineAppendFits(t *testing.T) {
	e := newEngine(64)

	require.True(t, e.append(testLine(60)))
	require.True(t, e.append(testLine(4)))

	assert.Equal(t, 64, e.current.used)
	assert.True(t, e.pending.empty())
	assert.Zero(t, e.rollovers.Load())
	assert.Len(t, e.wake, 0, "no signal without a rollover")
}

// TestEngineOverflowPromotesStandby appends a record one byte too large for the current buffer
func TestEngineOverflowPromotesStandby(t *testing.T) {
	e := newEngine(64)
	standby := e.standby

	require.True(t, e.append(testLine(63)))
	require.True(t, e.append(testLine(2)))

	assert.Equal(t, 1, e.pending.count)
	assert.Equal(t, 63, e.pending.head.used)
	assert.Same(t, standby, e.current)
	assert.Equal(t, 2, e.current.used)
	assert.Nil(t, e.standby)
	assert.Equal(t, uint64(1), e.rollovers.Load())
	assert.Zero(t, e.slowAllocs.Load())
	assert.Len(t, e.wake, 1, "rollover should signal the writer")
}

func TestEngineSlowAllocation(t *testing.T) {
	e := newEngine(64)

	for i := 0; i < 3; i++ {
		require.True(t, e.append(testLine(64)))
	}

	assert.Equal(t, 2, e.pending.count)
	assert.Equal(t, uint64(2), e.rollovers.Load())
	assert.Equal(t, uint64(1), e.slowAllocs.Load())
	assert.Len(t, e.wake, 1, "signals should coalesce")
}

func TestEngineRejectsOversizedLine(t *testing.T) {
	e := newEngine(64)

	assert.False(t, e.append(testLine(65)))
	assert.True(t, e.append(testLine(64)))
	assert.Zero(t, e.rollovers.Load())
}

func TestEngineHandoff(t *testing.T) {
	e := newEngine(64)
	for i := 0; i < 3; i++ {
		require.True(t, e.append(testLine(40)))
	}

	fresh, spare := newBuffer(64), newBuffer(64)

	e.mu.Lock()
	batch, spareTaken := e.handoffLocked(fresh, spare)
	e.mu.Unlock()

	// Two pending buffers plus the partially filled current one
	assert.Equal(t, 3, batch.count)
	assert.True(t, spareTaken)
	assert.Same(t, fresh, e.current)
	assert.Same(t, spare, e.standby)
	assert.True(t, e.pending.empty())

	total := 0
	for b := batch.head; b != nil; b = b.next {
		total += b.used
	}
	assert.Equal(t, 120, total)

	e.mu.Lock()
	batch, spareTaken = e.handoffLocked(nil, newBuffer(64))
	e.mu.Unlock()

	assert.Equal(t, 1, batch.count)
	assert.False(t, spareTaken, "standby was already filled")
	assert.NotNil(t, e.current)
	assert.Equal(t, 64, len(e.current.data))
}

func TestEngineCloseIfDrained(t *testing.T) {
	e := newEngine(64)
	require.True(t, e.append(testLine(10)))
	assert.False(t, e.closeIfDrained(), "unwritten data must keep the engine open")

	e.mu.Lock()
	batch, _ := e.handoffLocked(nil, nil)
	e.mu.Unlock()
	require.Equal(t, 1, batch.count)

	assert.True(t, e.closeIfDrained())
	assert.False(t, e.append(testLine(10)), "closed engine accepts nothing")
	assert.Zero(t, e.current.used)
}

func TestEngineConcurrentAppend(t *testing.T) {
	e := newEngine(1024)
	const producers = 8
	const perProducer = 1000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				e.append(testLine(10))
			}
		}()
	}
	wg.Wait()

	e.mu.Lock()
	batch, _ := e.handoffLocked(nil, nil)
	e.mu.Unlock()

	total := 0
	for b := batch.head; b != nil; b = b.next {
		assert.LessOrEqual(t, b.used, len(b.data))
		total += b.used
	}
	assert.Equal(t, producers*perProducer*10, total)
}
