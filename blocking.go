// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringqueue

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// BlockingQueue wraps a RingQueue with adaptive spin-then-park blocking and
// a cooperative drain/shutdown protocol.
//
// BlockingQueue is composition, not inheritance: it owns a RingQueue and
// delegates all element storage to it. Its own mutexes protect only the
// waiter bookkeeping and the park/predicate handshake, and are never held
// across a RingQueue operation.
type BlockingQueue[T any] struct {
	ring *RingQueue[T]

	spinBudget int

	pushMu      sync.Mutex
	pushCond    *sync.Cond
	pushWaiters int

	popMu      sync.Mutex
	popCond    *sync.Cond
	popWaiters int

	shutdown atomix.Bool
}

// NewBlockingQueue creates a blocking queue with the given ring capacity and
// spin budget (number of non-blocking retries attempted before a caller
// parks on a condition variable). spinBudget must be non-negative.
func NewBlockingQueue[T any](capacity, spinBudget int) *BlockingQueue[T] {
	if spinBudget < 0 {
		panic("ringqueue: spinBudget must be non-negative")
	}
	q := &BlockingQueue[T]{
		ring:       NewRingQueue[T](capacity),
		spinBudget: spinBudget,
	}
	q.pushCond = sync.NewCond(&q.pushMu)
	q.popCond = sync.NewCond(&q.popMu)
	return q
}

// TryPush attempts a non-blocking enqueue. It returns false immediately if
// shutdown has been initiated, even if the ring has room.
func (q *BlockingQueue[T]) TryPush(value T) bool {
	if q.shutdown.LoadAcquire() {
		return false
	}
	if q.ring.TryPush(value) != nil {
		return false
	}
	q.wakePop()
	return true
}

// Push blocks until value is enqueued or shutdown is observed.
// Returns true on success, false if shutdown aborted the wait.
func (q *BlockingQueue[T]) Push(value T) bool {
	remaining := q.spinBudget
	for {
		if q.shutdown.LoadAcquire() {
			return false
		}
		if q.ring.TryPush(value) == nil {
			q.wakePop()
			return true
		}
		if remaining > 0 {
			remaining--
			continue
		}

		q.pushMu.Lock()
		q.pushWaiters++
		for !q.shutdown.LoadAcquire() && q.ring.IsFull() {
			q.pushCond.Wait()
		}
		q.pushWaiters--
		q.pushMu.Unlock()

		remaining = q.spinBudget
	}
}

// TryPop attempts a non-blocking dequeue. Unlike TryPush it is not gated on
// shutdown, so draining remains possible after shutdown has been initiated.
func (q *BlockingQueue[T]) TryPop() (T, bool) {
	value, err := q.ring.TryPop()
	if err != nil {
		return value, false
	}
	q.wakePush()
	return value, true
}

// Pop blocks until a value is available or the queue is empty and shutdown
// has been initiated. Returns (value, true) on success; (zero, false) only
// when the ring is empty and shutdown is set, signalling EOF to the caller.
func (q *BlockingQueue[T]) Pop() (T, bool) {
	remaining := q.spinBudget
	for {
		if value, err := q.ring.TryPop(); err == nil {
			q.wakePush()
			return value, true
		}
		if q.shutdown.LoadAcquire() {
			var zero T
			return zero, false
		}
		if remaining > 0 {
			remaining--
			continue
		}

		q.popMu.Lock()
		q.popWaiters++
		for !q.shutdown.LoadAcquire() && q.ring.Empty() {
			q.popCond.Wait()
		}
		q.popWaiters--
		q.popMu.Unlock()

		remaining = q.spinBudget
	}
}

// DrainAndShutdown initiates cooperative shutdown: it forbids further
// blocking waits, wakes every parked producer and consumer, and returns
// once no threads remain parked and the ring is empty.
//
// After it returns, Push always returns false, and Pop returns false once
// the ring has been drained.
func (q *BlockingQueue[T]) DrainAndShutdown() {
	q.shutdown.StoreRelease(true)

	// Wake producers. New producers cannot park after shutdown is set (the
	// predicate picks it up immediately), so pushWaiters is monotonically
	// non-increasing and this converges.
	for {
		q.pushMu.Lock()
		waiters := q.pushWaiters
		if waiters > 0 {
			q.pushCond.Broadcast()
		}
		q.pushMu.Unlock()
		if waiters == 0 {
			break
		}
	}

	// Wake consumers and drain remaining items. A consumer that re-spins
	// after failing its wake-up predicate may still be draining the ring,
	// so the loop rechecks emptiness until both conditions hold together.
	for {
		q.popMu.Lock()
		waiters := q.popWaiters
		if waiters > 0 {
			q.popCond.Broadcast()
		}
		q.popMu.Unlock()
		if waiters == 0 && q.ring.Empty() {
			return
		}
	}
}

// Cap returns the configured ring capacity.
func (q *BlockingQueue[T]) Cap() int {
	return q.ring.Cap()
}

// wakePop signals a parked consumer, if any, that the ring may have data.
// popWaiters is read under popMu, so a consumer that has checked its
// predicate and parked is always counted; the Broadcast itself is issued
// after the lock is released, and the consumer's Cond.Wait loop re-checks
// its predicate on every wakeup.
func (q *BlockingQueue[T]) wakePop() {
	q.popMu.Lock()
	waiters := q.popWaiters
	q.popMu.Unlock()
	if waiters > 0 {
		q.popCond.Broadcast()
	}
}

// wakePush signals a parked producer, if any, that the ring may have room.
// Reads pushWaiters under pushMu, the same way wakePop reads popWaiters.
func (q *BlockingQueue[T]) wakePush() {
	q.pushMu.Lock()
	waiters := q.pushWaiters
	q.pushMu.Unlock()
	if waiters > 0 {
		q.pushCond.Broadcast()
	}
}
