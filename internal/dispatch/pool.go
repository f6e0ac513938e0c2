package dispatch

import "sync"

// pool bounds the number of goroutines used for single-channel fan-out.
// Submission blocks while all slots are busy, so a dispatch never spawns more
// than size concurrent backend calls.
type pool struct {
	slots chan struct{}
}

func newPool(size int) *pool {
	if size <= 0 {
		size = 1
	}
	return &pool{slots: make(chan struct{}, size)}
}

// run executes fn on a pooled goroutine, registering it with wg.
func (p *pool) run(wg *sync.WaitGroup, fn func()) {
	p.slots <- struct{}{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() { <-p.slots }()
		fn()
	}()
}
