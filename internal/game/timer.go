package game

import (
	"sync"
	"time"
)

// roundTimer is the per-room countdown handle. At most one is armed per
// room; cancel is idempotent and any tick racing with cancellation is
// discarded by the generation check in the engine's tick handler.
type roundTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func newRoundTimer(interval time.Duration) *roundTimer {
	return &roundTimer{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
}

// run pumps ticks into onTick until stopped or until onTick reports that
// the countdown is over.
func (t *roundTimer) run(onTick func() bool) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			if !onTick() {
				return
			}
		}
	}
}

func (t *roundTimer) cancel() {
	t.once.Do(func() { close(t.stop) })
}
