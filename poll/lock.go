package poll

import "sync/atomic"

// EditLock suppresses background refresh while a user edit session is open.
// It is the system's only cancellation primitive: holding it prevents new
// fetches from being issued at all, rather than discarding their results.
// One session at a time.
type EditLock struct {
	held atomic.Bool
}

// TryAcquire takes the lock, reporting false if an edit is already open.
func (l *EditLock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release frees the lock. Releasing an unheld lock is a no-op.
func (l *EditLock) Release() {
	l.held.Store(false)
}

// Held reports whether an edit session currently suppresses refresh.
func (l *EditLock) Held() bool {
	return l.held.Load()
}
