package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomLocks_SerializesSameRoom(t *testing.T) {
	locks := newRoomLocks()

	unlock := locks.lock(40)
	acquired := make(chan struct{})
	go func() {
		release := locks.lock(40)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same room acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestRoomLocks_IndependentRooms(t *testing.T) {
	locks := newRoomLocks()

	unlock := locks.lock(40)
	defer unlock()

	done := make(chan struct{})
	go func() {
		locks.lock(41)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different room blocked")
	}
}

func TestRoomLocks_EntriesDropped(t *testing.T) {
	locks := newRoomLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(room int64) {
			defer wg.Done()
			locks.lock(room)()
		}(int64(i % 5))
	}
	wg.Wait()

	assert.Zero(t, locks.size())
}
