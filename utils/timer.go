package utils

import (
	"sync"
	"time"
)

// CancelableTimer arms a single delayed effect. Starting while a previous
// timer is pending cancels it first, so only the most recent effect can fire.
type CancelableTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func NewCancelableTimer() *CancelableTimer {
	return &CancelableTimer{}
}

func (t *CancelableTimer) Start(delay time.Duration, effect func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, effect)
}

func (t *CancelableTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
