// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringqueue provides a bounded FIFO queue with two layered
// primitives: a lock-free multi-producer multi-consumer ring, and a
// blocking wrapper that adds adaptive spin-then-park waiting plus
// cooperative shutdown.
//
// # Quick Start
//
// Non-blocking, lock-free core:
//
//	q := ringqueue.NewRingQueue[int](1024)
//	if err := q.TryPush(42); err != nil {
//	    // queue is full
//	}
//	v, err := q.TryPop()
//
// Blocking wrapper, for callers that want to park instead of polling:
//
//	bq := ringqueue.NewBlockingQueue[int](1024, 64) // capacity, spin budget
//	ok := bq.Push(42)     // blocks until room or shutdown
//	v, ok := bq.Pop()     // blocks until a value or drained shutdown
//
// # Non-blocking usage
//
// TryPush/TryPop never block. They report full/empty through
// [ErrWouldBlock], sourced from [code.hybscloud.com/iox] for ecosystem
// consistency with the rest of the hybscloud stack:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPush(item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !ringqueue.IsWouldBlock(err) {
//	        return err // unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// Push and Pop on RingQueue are adaptive-spin wrappers around TryPush/TryPop
// that never return false; use them only when the caller has an upper bound
// on contention, since a side that never makes progress causes the spin to
// run forever.
//
// # Blocking usage and shutdown
//
// BlockingQueue adds a spin budget: each call retries the non-blocking
// operation spinBudget times before parking on a condition variable. Once
// parked, it wakes on every corresponding push/pop and re-checks its
// predicate (producer: "not full or shutdown", consumer: "not empty or
// shutdown") to absorb spurious wakeups.
//
//	var wg sync.WaitGroup
//	wg.Add(1)
//	go func() {
//	    defer wg.Done()
//	    for {
//	        v, ok := bq.Pop()
//	        if !ok {
//	            return // drained and shut down
//	        }
//	        process(v)
//	    }
//	}()
//
//	// ... producers call bq.Push ...
//
//	bq.DrainAndShutdown() // wakes all waiters, returns once ring is empty
//	wg.Wait()
//
// DrainAndShutdown is cooperative and queue-wide: it is the only
// cancellation signal BlockingQueue has. There are no per-operation
// timeouts; callers that need them should poll TryPush/TryPop themselves.
//
// # Capacity
//
// Capacity must be 1, or a power of two >= 2; any other value panics at
// construction. Invalid capacity is a fatal, non-recoverable construction
// failure, not a retryable condition.
//
// # Thread safety
//
// Both RingQueue and BlockingQueue are safe for any number of concurrent
// producer and consumer goroutines (true MPMC). Empty and IsFull are racy
// snapshots — suitable for predicates and heuristics, not exact accounting.
//
// # Race detection
//
// Go's race detector tracks explicit synchronization (mutexes, channels,
// WaitGroup) but not the happens-before relationships established purely
// through atomic acquire/release memory ordering on separate variables.
// RingQueue's per-slot sequence protocol is correct but triggers false
// positives under -race; concurrent stress tests skip themselves when
// [RaceEnabled] is true, which the //go:build race variant of that constant
// sets.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for the adaptive CPU-pause/yield
// back-off used inside the ring's CAS retry loops.
package ringqueue
