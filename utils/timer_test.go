package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancelableTimer_RestartDropsPreviousEffect(t *testing.T) {
	var fired int32
	timer := NewCancelableTimer()

	timer.Start(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	timer.Start(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	timer.Start(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCancelableTimer_CancelStopsPendingEffect(t *testing.T) {
	var fired int32
	timer := NewCancelableTimer()

	timer.Start(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	timer.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}
