package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := newPool(3)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 20; i++ {
		p.run(&wg, func() {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		})
	}
	wg.Wait()

	if got := peak.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
}

func TestPoolZeroSizeStillRuns(t *testing.T) {
	p := newPool(0)

	var wg sync.WaitGroup
	ran := false
	p.run(&wg, func() { ran = true })
	wg.Wait()

	if !ran {
		t.Error("task did not run")
	}
}
