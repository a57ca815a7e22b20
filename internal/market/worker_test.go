package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/currency"
)

// sequenceClock returns canned instants in order, repeating the last one.
type sequenceClock struct {
	mu    sync.Mutex
	times []time.Time
	idx   int
}

func (c *sequenceClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx < len(c.times)-1 {
		t := c.times[c.idx]
		c.idx++
		return t
	}
	return c.times[len(c.times)-1]
}

func newTestWorker(t *testing.T, lister CurrencyLister, inserter *stubInserter, clock func() time.Time) *Worker {
	t.Helper()

	cfg := marketConfig()
	cfg.PollInterval = time.Millisecond

	sampler, err := NewSampler(cfg, lister, newTestLogger())
	require.NoError(t, err)

	materializer, err := NewMaterializer(inserter, nil, nil, 2, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(materializer.Shutdown)

	w := NewWorker(cfg, sampler, materializer, newTestLogger())
	w.clock = clock
	return w
}

func TestWorker_MaterializesAtClose(t *testing.T) {
	lister := &stubLister{currencies: []currency.Currency{{ID: 1, Code: "AAA", Value: 2.0}}}
	inserter := &stubInserter{}

	clock := &sequenceClock{times: []time.Time{
		at(5, 0),  // before opening
		at(7, 0),  // opening snapshot
		at(12, 0), // mid-day
		at(19, 0), // closing snapshot, record materialized
	}}
	w := newTestWorker(t, lister, inserter, clock.now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		inserter.mu.Lock()
		defer inserter.mu.Unlock()
		return len(inserter.inserts) == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}

	assert.Equal(t, int64(1), inserter.inserts[0].CurrencyID)
	assert.Equal(t, 2.0, inserter.inserts[0].OpeningValue)
}

func TestWorker_HaltStopsLoop(t *testing.T) {
	lister := &stubLister{currencies: []currency.Currency{{ID: 1, Code: "AAA"}}}
	inserter := &stubInserter{}

	clock := &sequenceClock{times: []time.Time{at(5, 0)}}
	w := newTestWorker(t, lister, inserter, clock.now)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	w.Halt()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on halt")
	}
	assert.Empty(t, inserter.inserts)
}

func TestWorker_HaltNeverBlocks(t *testing.T) {
	cfg := marketConfig()
	sampler, err := NewSampler(cfg, &stubLister{}, newTestLogger())
	require.NoError(t, err)
	materializer, err := NewMaterializer(&stubInserter{}, nil, nil, 2, newTestLogger())
	require.NoError(t, err)
	defer materializer.Shutdown()

	w := NewWorker(cfg, sampler, materializer, newTestLogger())

	// No loop is draining the mailbox; repeated halts must still return.
	for i := 0; i < mailboxDepth*2; i++ {
		w.Halt()
	}
}
