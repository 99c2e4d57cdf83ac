// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package vex

import (
	"testing"

	"github.com/vexsim/hostbrain/pkg/sim"
)

func TestControllerReads(t *testing.T) {
	store := sim.NewStore(0)
	c := NewController(store, sim.ControllerMaster)

	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogLeftY, 95)
	store.SetControllerDigital(sim.ControllerMaster, sim.ButtonL1, true)

	if got := c.Analog(sim.AnalogLeftY); got != 95 {
		t.Errorf("Analog(LeftY) = %d, want 95", got)
	}
	if !c.Digital(sim.ButtonL1) {
		t.Error("Digital(L1) = false")
	}
	if c.Digital(sim.ButtonR2) {
		t.Error("Digital(R2) = true, never pressed")
	}
	if !c.IsConnected() {
		t.Error("IsConnected() = false for the default master controller")
	}
}

func TestDigitalNewPressEdges(t *testing.T) {
	store := sim.NewStore(0)
	c := NewController(store, sim.ControllerMaster)

	// Not pressed yet.
	if c.DigitalNewPress(sim.ButtonA) {
		t.Error("new press reported while released")
	}

	store.SetControllerDigital(sim.ControllerMaster, sim.ButtonA, true)
	if !c.DigitalNewPress(sim.ButtonA) {
		t.Error("rising edge not reported")
	}
	if c.DigitalNewPress(sim.ButtonA) {
		t.Error("new press reported twice while held")
	}

	store.SetControllerDigital(sim.ControllerMaster, sim.ButtonA, false)
	if c.DigitalNewPress(sim.ButtonA) {
		t.Error("new press reported on release")
	}

	store.SetControllerDigital(sim.ControllerMaster, sim.ButtonA, true)
	if !c.DigitalNewPress(sim.ButtonA) {
		t.Error("second rising edge not reported")
	}
}

func TestDigitalNewPressOutOfRange(t *testing.T) {
	store := sim.NewStore(0)
	c := NewController(store, sim.ControllerMaster)
	if c.DigitalNewPress(-1) || c.DigitalNewPress(sim.NumButtons) {
		t.Error("out-of-range button reported a press")
	}
}
