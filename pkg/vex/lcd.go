// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package vex

import (
	"fmt"
	"sync"

	"github.com/vexsim/hostbrain/pkg/sim"
)

// LCD button bitmask, matching the legacy LCD emulator layout.
const (
	LCDButtonRight  uint8 = 1 << iota // rightmost on-screen button
	LCDButtonCenter
	LCDButtonLeft
)

// LCD is the legacy LCD emulator (LLEMU): eight text lines and three
// on-screen buttons at the bottom of the brain screen. Writes before
// Initialize are rejected, mirroring the embedded behavior.
type LCD struct {
	store *sim.Store

	mu          sync.Mutex
	initialized bool
	callbacks   [3]func() // left, center, right
	lastButtons uint8
}

// NewLCD creates the LLEMU facade over the store.
func NewLCD(store *sim.Store) *LCD {
	return &LCD{store: store}
}

// Initialize turns the emulator on. It reports false if already
// initialized.
func (l *LCD) Initialize() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return false
	}
	l.initialized = true
	return true
}

// IsInitialized reports whether Initialize has been called.
func (l *LCD) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized
}

// Shutdown turns the emulator off and blanks every line.
func (l *LCD) Shutdown() bool {
	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return false
	}
	l.initialized = false
	l.mu.Unlock()
	l.store.ClearLCD()
	return true
}

// Print formats one line, printf-style. Lines outside [0, 7] and calls
// before Initialize report false.
func (l *LCD) Print(line int, format string, args ...any) bool {
	return l.SetText(line, fmt.Sprintf(format, args...))
}

// SetText writes one line verbatim.
func (l *LCD) SetText(line int, text string) bool {
	if !l.IsInitialized() || line < 0 || line >= sim.NumLCDLines {
		return false
	}
	l.store.SetLCDLine(line, text)
	return true
}

// Clear blanks every line.
func (l *LCD) Clear() bool {
	if !l.IsInitialized() {
		return false
	}
	l.store.ClearLCD()
	return true
}

// ClearLine blanks one line.
func (l *LCD) ClearLine(line int) bool {
	if !l.IsInitialized() || line < 0 || line >= sim.NumLCDLines {
		return false
	}
	l.store.ClearLCDLine(line)
	return true
}

// ReadButtons returns the current on-screen button bitmask.
func (l *LCD) ReadButtons() uint8 {
	return l.store.LCDButtons()
}

// RegisterLeftCallback registers the handler for the left button's
// rising edge.
func (l *LCD) RegisterLeftCallback(fn func()) { l.register(0, fn) }

// RegisterCenterCallback registers the handler for the center button's
// rising edge.
func (l *LCD) RegisterCenterCallback(fn func()) { l.register(1, fn) }

// RegisterRightCallback registers the handler for the right button's
// rising edge.
func (l *LCD) RegisterRightCallback(fn func()) { l.register(2, fn) }

func (l *LCD) register(idx int, fn func()) {
	l.mu.Lock()
	l.callbacks[idx] = fn
	l.mu.Unlock()
}

// SetBackgroundColor sets the LLEMU background color.
func (l *LCD) SetBackgroundColor(color uint32) {
	l.store.SetLCDBackgroundColor(color)
}

// SetTextColor sets the LLEMU text color.
func (l *LCD) SetTextColor(color uint32) {
	l.store.SetLCDTextColor(color)
}

// CheckButtons samples the button bitmask and fires the callbacks for
// buttons that went down since the previous call. The driving loop
// calls this once per tick.
func (l *LCD) CheckButtons() {
	buttons := l.store.LCDButtons()

	l.mu.Lock()
	pressed := buttons &^ l.lastButtons
	l.lastButtons = buttons
	cbs := l.callbacks
	initialized := l.initialized
	l.mu.Unlock()

	if !initialized {
		return
	}
	if pressed&LCDButtonLeft != 0 && cbs[0] != nil {
		cbs[0]()
	}
	if pressed&LCDButtonCenter != 0 && cbs[1] != nil {
		cbs[1]()
	}
	if pressed&LCDButtonRight != 0 && cbs[2] != nil {
		cbs[2]()
	}
}
