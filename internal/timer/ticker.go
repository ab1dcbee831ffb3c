// Package timer provides the two clocks of an active workout: a fixed
// interval ticker and the rest countdown.
package timer

import (
	"sync"
	"time"
)

// Ticker calls a function at a fixed interval on its own goroutine until
// stopped.
type Ticker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Every starts a Ticker that calls fn every interval.
func Every(interval time.Duration, fn func(time.Time)) *Ticker {
	t := &Ticker{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-tk.C:
				fn(now)
			}
		}
	}()
	return t
}

// Stop cancels the ticker and waits for an in-flight callback to return.
// After Stop returns fn is never called again. Stop is idempotent and must
// not be called from fn.
func (t *Ticker) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
