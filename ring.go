// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringqueue

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingQueue is a lock-free multi-producer multi-consumer bounded FIFO queue.
//
// Based on Dmitry Vyukov's bounded MPMC queue: each slot carries its own
// atomic sequence number acting as a ticket, so producers and consumers
// coordinate without ever holding a shared mutex across the ring. Capacity
// must be a power of two (or 1) so that slot indexing is a bitmask instead
// of a modulo.
//
// head is the next ticket a producer will claim, tail the next ticket a
// consumer will claim; head >= tail always, and head - tail <= capacity.
//
// Memory: n slots for capacity n (one sequence word plus one T per slot).
type RingQueue[T any] struct {
	_        pad
	head     atomix.Uint64 // next ticket a producer will claim
	_        pad
	tail     atomix.Uint64 // next ticket a consumer will claim
	_        pad
	slots    []ringSlot[T]
	mask     uint64
	capacity uint64
}

type ringSlot[T any] struct {
	sequence atomix.Uint64
	value    T
	_        padShort
}

// NewRingQueue creates a new ring queue of the given capacity.
// Capacity must be 1, or a power of two >= 2; any other value panics.
func NewRingQueue[T any](capacity int) *RingQueue[T] {
	if capacity < 1 || (capacity >= 2 && capacity&(capacity-1) != 0) {
		panic("ringqueue: capacity must be 1 or a power of two")
	}

	n := uint64(capacity)
	q := &RingQueue[T]{
		slots:    make([]ringSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		q.slots[i].sequence.StoreRelaxed(i)
	}
	return q
}

// TryPush attempts to enqueue value without blocking.
// Returns nil on success, ErrWouldBlock if the queue is full.
func (q *RingQueue[T]) TryPush(value T) error {
	sw := spin.Wait{}
	head := q.head.LoadRelaxed()
	for {
		slot := &q.slots[head&q.mask]
		seq := slot.sequence.LoadAcquire()
		diff := int64(seq) - int64(head)

		switch {
		case diff == 0:
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				slot.value = value
				slot.sequence.StoreRelease(head + 1)
				return nil
			}
			sw.Once()
		case diff < 0:
			return ErrWouldBlock
		default:
			// diff > 0: fallen behind, re-read head and restart
			head = q.head.LoadAcquire()
			sw.Once()
		}
	}
}

// TryPop attempts to dequeue the head-of-line value without blocking.
// Returns (value, nil) on success, (zero, ErrWouldBlock) if the queue is empty.
func (q *RingQueue[T]) TryPop() (T, error) {
	sw := spin.Wait{}
	tail := q.tail.LoadRelaxed()
	for {
		slot := &q.slots[tail&q.mask]
		seq := slot.sequence.LoadAcquire()
		diff := int64(seq) - int64(tail+1)

		switch {
		case diff == 0:
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				value := slot.value
				var zero T
				slot.value = zero
				slot.sequence.StoreRelease(tail + q.capacity)
				return value, nil
			}
			sw.Once()
		case diff < 0:
			var zero T
			return zero, ErrWouldBlock
		default:
			// diff > 0: fallen behind, re-read tail and restart
			tail = q.tail.LoadAcquire()
			sw.Once()
		}
	}
}

// Push adaptively spins until value is accepted. It never fails; only call
// this when the caller has upper-bound knowledge of producer/consumer
// contention, since a consumer side that never drains makes it spin forever.
func (q *RingQueue[T]) Push(value T) {
	sw := spin.Wait{}
	for q.TryPush(value) != nil {
		sw.Once()
	}
}

// Pop adaptively spins until a value is available. It never fails; see the
// liveness caveat on [RingQueue.Push].
func (q *RingQueue[T]) Pop() T {
	sw := spin.Wait{}
	for {
		v, err := q.TryPop()
		if err == nil {
			return v
		}
		sw.Once()
	}
}

// Cap returns the configured capacity.
func (q *RingQueue[T]) Cap() int {
	return int(q.capacity)
}

// Empty reports a racy snapshot of whether head == tail.
// Suitable only for predicates and heuristics; a concurrent producer or
// consumer may invalidate the observation the instant it's taken.
func (q *RingQueue[T]) Empty() bool {
	return q.head.LoadAcquire() == q.tail.LoadAcquire()
}

// IsFull reports a racy snapshot of whether head - tail == capacity.
// Suitable only for predicates and heuristics.
func (q *RingQueue[T]) IsFull() bool {
	return q.head.LoadAcquire()-q.tail.LoadAcquire() == q.capacity
}
