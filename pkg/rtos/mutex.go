// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package rtos

import (
	"sync"
	"time"
)

// Mutex is a lock with optional bounded acquisition, mirroring the
// RTOS mutex API. The zero value is ready to use. It is not reentrant.
type Mutex struct {
	once sync.Once
	sem  chan struct{}
}

func (m *Mutex) init() {
	m.once.Do(func() {
		m.sem = make(chan struct{}, 1)
	})
}

// Take acquires the mutex. A timeout of zero (or less) blocks
// indefinitely; otherwise Take waits at most that long and reports
// whether the mutex was acquired.
func (m *Mutex) Take(timeout time.Duration) bool {
	m.init()
	if timeout <= 0 {
		m.sem <- struct{}{}
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case m.sem <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

// Give releases the mutex. Giving a mutex that is not held reports
// false and has no other effect.
func (m *Mutex) Give() bool {
	m.init()
	select {
	case <-m.sem:
		return true
	default:
		return false
	}
}

// Lock acquires the mutex, blocking indefinitely.
func (m *Mutex) Lock() { m.Take(0) }

// Unlock releases the mutex.
func (m *Mutex) Unlock() { m.Give() }
