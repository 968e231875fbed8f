package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// A syncer simulates backend latency of writes.
//
// The flag stays raised while at least one write is in flight.
type syncer struct {
	inFlight atomic.Int64
	wg       sync.WaitGroup
}

func (s *syncer) syncing() bool {
	return s.inFlight.Load() > 0
}

// simulate applies fn after delay. The result is delivered once the
// flag for this write is lowered. Writes can't be canceled.
func simulate[T any](s *syncer, delay time.Duration, fn func() T) <-chan T {
	res := make(chan T, 1)
	s.inFlight.Add(1)
	s.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer s.wg.Done()
		v := fn()
		s.inFlight.Add(-1)
		res <- v
		close(res)
	})
	return res
}
