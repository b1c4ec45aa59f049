package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	value string
	at    time.Time
}

type recorder struct {
	mu    sync.Mutex
	calls []call
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) fn(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, call{value: v, at: time.Now()})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func TestDebouncer_BurstFiresOnceWithFinalValue(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(DefaultDelay, rec.fn)
	defer d.Stop()

	start := time.Now()
	var last time.Time
	for i, v := range []string{"p", "pa", "pas", "past"} {
		time.Sleep(time.Until(start.Add(time.Duration(i) * 50 * time.Millisecond)))
		last = time.Now()
		d.Trigger(v)
	}

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never happened")
	}
	time.Sleep(2 * DefaultDelay)

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "past", calls[0].value)
	assert.GreaterOrEqual(t, calls[0].at.Sub(last), DefaultDelay)
}

func TestDebouncer_SeparateBurstsFireSeparately(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.fn)
	defer d.Stop()

	d.Trigger("a")
	<-rec.done
	d.Trigger("b")
	<-rec.done

	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].value)
	assert.Equal(t, "b", calls[1].value)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.fn)

	d.Trigger("x")
	d.Stop()
	d.Trigger("y")
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_Flush(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(50*time.Millisecond, rec.fn)
	defer d.Stop()

	assert.False(t, d.Flush())
	d.Trigger("x")
	assert.True(t, d.Flush())
	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	d.Trigger("y")
	<-rec.done
	assert.Equal(t, "y", rec.snapshot()[0].value)
}

func TestDebouncer_NonPositiveDelayUsesDefault(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	assert.Equal(t, DefaultDelay, d.delay)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	a := s.Next()
	b := s.Next()

	assert.Greater(t, b, a)
	assert.False(t, s.IsLatest(a))
	assert.True(t, s.IsLatest(b))

	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next()
		}()
	}
	wg.Wait()
	close(seen)

	uniq := map[uint64]bool{}
	for v := range seen {
		uniq[v] = true
	}
	assert.Len(t, uniq, 100)
	assert.True(t, s.IsLatest(b+100))
}
