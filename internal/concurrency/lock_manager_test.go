package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockManager_SerializesSameKey(t *testing.T) {
	lm := NewLockManager()

	var (
		wg      sync.WaitGroup
		active  int32
		overlap int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lm.WithLock("bet-1", func() error {
				if atomic.AddInt32(&active, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlap), "holders of one key never overlap")
	assert.Zero(t, lm.Len(), "idle keys are released")
}

func TestLockManager_IndependentKeys(t *testing.T) {
	lm := NewLockManager()

	unlockA := lm.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := lm.Lock("b")
		unlockB()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, lm.Len())
	unlockA()
	assert.Zero(t, lm.Len())
}

func TestLockManager_WithLockReturnsError(t *testing.T) {
	lm := NewLockManager()
	boom := errors.New("boom")

	assert.ErrorIs(t, lm.WithLock("k", func() error { return boom }), boom)
	assert.Zero(t, lm.Len())
}
