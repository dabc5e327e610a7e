package utils

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifierRunsJobs(t *testing.T) {
	notifier := NewNotifier(8)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		notifier.Dispatch(func() {
			defer wg.Done()
			ran.Add(1)
		})
	}

	wg.Wait()
	assert.Equal(t, int32(5), ran.Load())
}

func TestNotifierSurvivesPanickingJob(t *testing.T) {
	notifier := NewNotifier(8)

	done := make(chan struct{})
	notifier.Dispatch(func() { panic("boom") })
	notifier.Dispatch(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier stopped processing after a panicking job")
	}
}

func TestNotifierDropsWhenFull(t *testing.T) {
	notifier := NewNotifier(1)

	block := make(chan struct{})
	notifier.Dispatch(func() { <-block })

	// Fill the buffer, then overflow it. Reaching the end of the loop proves
	// Dispatch never blocked.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			notifier.Dispatch(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a full queue")
	}
	close(block)
}
