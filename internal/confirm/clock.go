package confirm

import (
	"fmt"
	"time"
)

// Ticker delivers countdown ticks. A closed channel means the timer died.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. It is the engine's only time source.
type Clock interface {
	NewTicker(d time.Duration) (Ticker, error)
}

// RealClock returns a Clock backed by time.Ticker.
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) (Ticker, error) {
	if d <= 0 {
		return nil, fmt.Errorf("non-positive tick interval %s", d)
	}
	return &realTicker{t: time.NewTicker(d)}, nil
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }
