// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package rtos emulates the PROS task primitives on top of native Go
// goroutines. Tasks, mutexes and the millisecond clock behave like
// their RTOS counterparts as far as robot code can observe, with two
// deliberate differences: scheduling is preemptive and parallel (task
// priority is metadata only), and suspension/cancellation are
// cooperative (a task body that never checks its flags cannot be
// stopped from outside).
package rtos

import "time"

// processStart anchors the monotonic clock. Robot code sees time zero
// at process start, like the embedded brain sees time zero at boot.
var processStart = time.Now()

// Millis returns milliseconds since process start.
func Millis() uint32 {
	return uint32(time.Since(processStart) / time.Millisecond)
}

// Micros returns microseconds since process start.
func Micros() uint64 {
	return uint64(time.Since(processStart) / time.Microsecond)
}

// Delay blocks the calling task for the given number of milliseconds.
func Delay(milliseconds uint32) {
	time.Sleep(time.Duration(milliseconds) * time.Millisecond)
}

// DelayUntil blocks until *prev + delta milliseconds of process time,
// then advances *prev by delta. It gives loops a drift-free cadence:
//
//	now := rtos.Millis()
//	for {
//		step()
//		rtos.DelayUntil(&now, 20)
//	}
func DelayUntil(prev *uint32, delta uint32) {
	target := *prev + delta
	if now := Millis(); target > now {
		time.Sleep(time.Duration(target-now) * time.Millisecond)
	}
	*prev = target
}
