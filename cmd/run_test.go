// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"testing"
	"time"

	"github.com/vexsim/hostbrain/pkg/auton"
	"github.com/vexsim/hostbrain/pkg/display"
	"github.com/vexsim/hostbrain/pkg/link"
	"github.com/vexsim/hostbrain/pkg/rtos"
	"github.com/vexsim/hostbrain/pkg/sim"
)

func TestModeTaskLifecycle(t *testing.T) {
	store := sim.NewStore(10 * time.Millisecond)
	r := newRobot(store, auton.NewSelector(), defaultConfig())
	r.initialize()
	modes := &modeTasks{r: r}
	base := rtos.TaskCount()

	// Driver control: the sticks drive the motors.
	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogLeftY, 100)
	modes.dispatch(sim.ModeOpControl)
	deadline := time.Now().Add(time.Second)
	for store.MotorVoltage(1) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.MotorVoltage(1) == 0 {
		t.Fatal("opcontrol task never drove the motors")
	}

	// Dropping out of a live mode stops opcontrol and runs the
	// disabled entry point, which parks the drive.
	modes.dispatch(sim.ModeDisabled)
	modes.halt()
	if got := store.MotorVoltage(1); got != 0 {
		t.Errorf("left voltage = %d after disabled, want 0", got)
	}
	if lines := store.LCDLines(); lines[2] != "disabled" {
		t.Errorf("lcd line 2 = %q after disabled, want %q", lines[2], "disabled")
	}
	if got := rtos.TaskCount(); got != base {
		t.Errorf("TaskCount() = %d after halt, want %d", got, base)
	}
}

func TestAutonomousDispatchHaltsCleanly(t *testing.T) {
	store := sim.NewStore(10 * time.Millisecond)
	r := newRobot(store, auton.NewSelector(), defaultConfig())
	r.initialize()
	modes := &modeTasks{r: r}
	base := rtos.TaskCount()

	// Nothing selected, so the routine is a no-op and the task exits
	// on its own. halt must still tear it down, with no stop channel
	// in play.
	modes.dispatch(sim.ModeAutonomous)
	modes.halt()
	if got := rtos.TaskCount(); got != base {
		t.Errorf("TaskCount() = %d after halt, want %d", got, base)
	}
}

func TestApplyController(t *testing.T) {
	store := sim.NewStore(0)
	applyController(store, link.ControllerInput{
		Type: link.TypeController,
		LX:   -30, LY: 127, RX: 5, RY: -127,
		Buttons: link.BitA | link.BitL1 | link.BitUp,
	})

	if got := store.ControllerAnalog(sim.ControllerMaster, sim.AnalogLeftX); got != -30 {
		t.Errorf("LX = %d", got)
	}
	if got := store.ControllerAnalog(sim.ControllerMaster, sim.AnalogRightY); got != -127 {
		t.Errorf("RY = %d", got)
	}
	for _, tt := range []struct {
		button int
		want   bool
	}{
		{sim.ButtonA, true},
		{sim.ButtonL1, true},
		{sim.ButtonUp, true},
		{sim.ButtonB, false},
		{sim.ButtonR2, false},
	} {
		if got := store.ControllerDigital(sim.ControllerMaster, tt.button); got != tt.want {
			t.Errorf("button %d = %v, want %v", tt.button, got, tt.want)
		}
	}

	// A later sample with everything released clears the buttons.
	applyController(store, link.ControllerInput{Type: link.TypeController})
	if store.ControllerDigital(sim.ControllerMaster, sim.ButtonA) {
		t.Error("button A still pressed after release sample")
	}
}

func TestApplyLCDTouch(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{"left third", 10, display.Height - 10, 0b100},
		{"center third", display.Width / 2, display.Height - 1, 0b010},
		{"right third", display.Width - 5, display.Height - 20, 0b001},
		{"above the strip", 10, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sim.NewStore(0)
			applyLCDTouch(store, link.TouchInput{X: tt.x, Y: tt.y, Pressed: true})
			if got := store.LCDButtons(); got != tt.want {
				t.Errorf("buttons = %03b, want %03b", got, tt.want)
			}
		})
	}
}

func TestApplyLCDTouchReleaseClearsAll(t *testing.T) {
	store := sim.NewStore(0)
	applyLCDTouch(store, link.TouchInput{X: 10, Y: display.Height - 10, Pressed: true})
	applyLCDTouch(store, link.TouchInput{X: 10, Y: display.Height - 10})
	if got := store.LCDButtons(); got != 0 {
		t.Errorf("buttons = %03b after release, want 0", got)
	}
}
