// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package vex

import (
	"testing"

	"github.com/vexsim/hostbrain/pkg/sim"
)

func TestLCDRequiresInitialize(t *testing.T) {
	store := sim.NewStore(0)
	lcd := NewLCD(store)

	if lcd.SetText(0, "too early") {
		t.Error("SetText succeeded before Initialize")
	}
	if lcd.Clear() {
		t.Error("Clear succeeded before Initialize")
	}

	if !lcd.Initialize() {
		t.Fatal("Initialize failed")
	}
	if lcd.Initialize() {
		t.Error("second Initialize reported success")
	}
	if !lcd.IsInitialized() {
		t.Error("IsInitialized() = false after Initialize")
	}
}

func TestLCDText(t *testing.T) {
	store := sim.NewStore(0)
	lcd := NewLCD(store)
	lcd.Initialize()

	if !lcd.Print(2, "battery: %d%%", 87) {
		t.Error("Print failed")
	}
	if got := store.LCDLine(2); got != "battery: 87%" {
		t.Errorf("line 2 = %q", got)
	}

	if lcd.SetText(8, "bad line") {
		t.Error("SetText accepted line 8")
	}
	if lcd.SetText(-1, "bad line") {
		t.Error("SetText accepted line -1")
	}

	lcd.SetText(0, "status")
	if !lcd.ClearLine(0) {
		t.Error("ClearLine failed")
	}
	if got := store.LCDLine(0); got != "" {
		t.Errorf("line 0 = %q after ClearLine", got)
	}
}

func TestLCDShutdownClears(t *testing.T) {
	store := sim.NewStore(0)
	lcd := NewLCD(store)
	lcd.Initialize()
	lcd.SetText(0, "going away")

	if !lcd.Shutdown() {
		t.Fatal("Shutdown failed")
	}
	if lcd.Shutdown() {
		t.Error("second Shutdown reported success")
	}
	if got := store.LCDLine(0); got != "" {
		t.Errorf("line 0 = %q after Shutdown", got)
	}
}

func TestLCDButtonCallbacksFireOnRisingEdge(t *testing.T) {
	store := sim.NewStore(0)
	lcd := NewLCD(store)
	lcd.Initialize()

	var left, center, right int
	lcd.RegisterLeftCallback(func() { left++ })
	lcd.RegisterCenterCallback(func() { center++ })
	lcd.RegisterRightCallback(func() { right++ })

	store.SetLCDButton(LCDButtonCenter, true)
	lcd.CheckButtons()
	lcd.CheckButtons() // still held, no second edge
	store.SetLCDButton(LCDButtonCenter, false)
	lcd.CheckButtons()
	store.SetLCDButton(LCDButtonCenter, true)
	lcd.CheckButtons()

	if center != 2 {
		t.Errorf("center callback ran %d times, want 2", center)
	}
	if left != 0 || right != 0 {
		t.Errorf("left/right callbacks ran %d/%d times, want 0/0", left, right)
	}
}

func TestLCDButtonCallbacksIgnoredBeforeInitialize(t *testing.T) {
	store := sim.NewStore(0)
	lcd := NewLCD(store)

	fired := false
	lcd.RegisterLeftCallback(func() { fired = true })
	store.SetLCDButton(LCDButtonLeft, true)
	lcd.CheckButtons()

	if fired {
		t.Error("callback fired before Initialize")
	}
}
