package indexer

import "sync/atomic"

// IndexLock is a non-blocking lock guarding index builds. A build that
// cannot acquire it is rejected rather than queued.
type IndexLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock. Only the holder may call it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}

// Held reports whether a build is running
func (l *IndexLock) Held() bool {
	return l.state.Load() == 1
}
