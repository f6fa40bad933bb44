package app

import (
	"sync"
	"time"
)

// CountdownTimer is the collaborator driving exam-mode countdowns. Exactly
// one countdown is active per session; the session releases its handle on
// completion or replacement.
type CountdownTimer interface {
	Start(durationSeconds int, onTick func(), onExpire func()) CountdownHandle
}

// CountdownHandle cancels an active countdown. Cancel is safe to call more
// than once.
type CountdownHandle interface {
	Cancel()
}

// TickerTimer is the production CountdownTimer backed by time.Ticker.
type TickerTimer struct{}

func (TickerTimer) Start(durationSeconds int, onTick func(), onExpire func()) CountdownHandle {
	handle := &tickerHandle{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		remaining := durationSeconds
		for {
			select {
			case <-ticker.C:
				remaining--
				if remaining <= 0 {
					onExpire()
					return
				}
				onTick()
			case <-handle.done:
				return
			}
		}
	}()
	return handle
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.done) })
}
