// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package rtos

import (
	"sync"
	"sync/atomic"
	"time"
)

// TaskState describes where a task is in its lifecycle.
type TaskState int32

// Task lifecycle states.
const (
	TaskReady TaskState = iota
	TaskRunning
	TaskBlocked
	TaskSuspended
	TaskDeleted
)

func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "ready"
	case TaskRunning:
		return "running"
	case TaskBlocked:
		return "blocked"
	case TaskSuspended:
		return "suspended"
	case TaskDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NotifyAction selects how NotifyExt combines a value into the task's
// notification slot.
type NotifyAction int

// Notification actions.
const (
	NotifyNone NotifyAction = iota
	NotifyBitwiseOr
	NotifyIncrement
	NotifyOverwriteAlways
	NotifyOverwriteIfNotPending
)

// Default priority for tasks that don't care. Priority is recorded but
// never enforced; the Go scheduler runs all tasks preemptively.
const PriorityDefault = 8

// liveTasks counts running tasks. The main goroutine counts as one,
// like the main task on the brain.
var liveTasks atomic.Int32

func init() {
	liveTasks.Store(1)
}

// TaskCount returns the number of live tasks, including main.
func TaskCount() int {
	return int(liveTasks.Load())
}

// Task is a concurrently executing unit of work backed by exactly one
// goroutine, started by NewTask. The goroutine is never pooled or
// reused.
//
// Cancellation is cooperative: Remove only requests a stop, and Join
// blocks until the body returns. A body that never observes
// Running()/Suspended() cannot be stopped or suspended from outside;
// this mirrors the host-mode RTOS shim and is relied upon by callers.
type Task struct {
	name      string
	priority  atomic.Int32
	state     atomic.Int32
	running   atomic.Bool
	suspended atomic.Bool
	done      chan struct{}

	mu      sync.Mutex
	value   uint32
	pending bool
	wake    chan struct{}
}

// NewTask starts fn on a new goroutine immediately. A panic escaping
// fn is recovered and discarded; either way the task transitions to
// TaskDeleted and the live-task counter drops.
func NewTask(fn func(), priority int, name string) *Task {
	t := &Task{
		name: name,
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
	}
	t.priority.Store(int32(priority))
	t.state.Store(int32(TaskReady))
	t.running.Store(true)
	liveTasks.Add(1)

	go func() {
		defer func() {
			recover() // task faults die with the task
			t.state.Store(int32(TaskDeleted))
			t.running.Store(false)
			liveTasks.Add(-1)
			close(t.done)
		}()
		t.state.Store(int32(TaskRunning))
		fn()
	}()
	return t
}

// Name returns the task's name.
func (t *Task) Name() string { return t.name }

// Priority returns the task's priority. Informational only.
func (t *Task) Priority() int { return int(t.priority.Load()) }

// SetPriority records a new priority. It has no scheduling effect.
func (t *Task) SetPriority(priority int) { t.priority.Store(int32(priority)) }

// State returns the task's lifecycle state. A live task flagged as
// suspended reports TaskSuspended regardless of what its body is doing.
func (t *Task) State() TaskState {
	s := TaskState(t.state.Load())
	if s != TaskDeleted && t.suspended.Load() {
		return TaskSuspended
	}
	return s
}

// Running reports whether the task has been asked to keep going. Task
// bodies poll this as their stop condition.
func (t *Task) Running() bool { return t.running.Load() }

// Suspended reports whether the task is flagged as suspended. Bodies
// that honor suspension poll this.
func (t *Task) Suspended() bool { return t.suspended.Load() }

// Done returns a channel closed when the task's body has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Suspend flags the task as suspended, whether the body is ready,
// running or blocked. The backing goroutine is not halted; a body that
// ignores Suspended keeps running.
func (t *Task) Suspend() {
	t.suspended.Store(true)
}

// Resume clears the suspended flag.
func (t *Task) Resume() {
	if t.suspended.CompareAndSwap(true, false) {
		t.signal()
	}
}

// Remove requests a cooperative stop and wakes the task if it is
// blocked on a notification. The body must observe Running for the
// stop to take effect; Join on a task that never does blocks forever.
func (t *Task) Remove() {
	t.running.Store(false)
	t.signal()
}

// Join blocks until the task's goroutine has exited.
func (t *Task) Join() { <-t.done }

// Notify increments the notification value, marks it pending and
// wakes a blocked waiter. It always returns 1.
func (t *Task) Notify() uint32 {
	t.mu.Lock()
	t.value++
	t.pending = true
	t.mu.Unlock()
	t.signal()
	return 1
}

// NotifyExt combines value into the notification slot according to
// action, marks it pending, wakes a blocked waiter and returns the
// previous notification value.
func (t *Task) NotifyExt(value uint32, action NotifyAction) uint32 {
	t.mu.Lock()
	prev := t.value
	switch action {
	case NotifyBitwiseOr:
		t.value |= value
	case NotifyIncrement:
		t.value += value
	case NotifyOverwriteAlways:
		t.value = value
	case NotifyOverwriteIfNotPending:
		if !t.pending {
			t.value = value
		}
	}
	t.pending = true
	t.mu.Unlock()
	t.signal()
	return prev
}

// NotifyClear atomically clears the pending flag and zeroes the value,
// reporting whether a notification was pending.
func (t *Task) NotifyClear() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasPending := t.pending
	t.pending = false
	t.value = 0
	return wasPending
}

// NotifyTake blocks the calling goroutine (which should be the task's
// own body) until a notification is pending, then consumes it and
// returns the value. With clear set the slot is zeroed, otherwise the
// value is decremented, counting-semaphore style. A timeout of zero
// blocks indefinitely. The wait also ends when the task is removed;
// ok reports whether a notification was actually taken.
func (t *Task) NotifyTake(clear bool, timeout time.Duration) (value uint32, ok bool) {
	var expiry <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expiry = timer.C
	}

	for {
		t.mu.Lock()
		if t.pending {
			value = t.value
			if clear {
				t.value = 0
			} else if t.value > 0 {
				t.value--
			}
			t.pending = t.value > 0 && !clear
			t.mu.Unlock()
			t.state.CompareAndSwap(int32(TaskBlocked), int32(TaskRunning))
			return value, true
		}
		t.mu.Unlock()

		if !t.running.Load() {
			return 0, false
		}

		t.state.CompareAndSwap(int32(TaskRunning), int32(TaskBlocked))
		select {
		case <-t.wake:
		case <-expiry:
			t.state.CompareAndSwap(int32(TaskBlocked), int32(TaskRunning))
			return 0, false
		}
		t.state.CompareAndSwap(int32(TaskBlocked), int32(TaskRunning))
	}
}

// signal wakes a waiter without blocking when none is listening.
func (t *Task) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}
