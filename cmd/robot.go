// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"github.com/vexsim/hostbrain/pkg/auton"
	"github.com/vexsim/hostbrain/pkg/rtos"
	"github.com/vexsim/hostbrain/pkg/sim"
	"github.com/vexsim/hostbrain/pkg/vex"
)

// robot is the built-in demo program: a tank-drive robot with a few
// autonomous routines and an LLEMU status readout. It exercises the
// same API surface a ported robot program would use.
type robot struct {
	store    *sim.Store
	selector *auton.Selector

	left    *vex.Motor
	right   *vex.Motor
	master  *vex.Controller
	lcd     *vex.LCD
	battery *vex.Battery
}

func newRobot(store *sim.Store, selector *auton.Selector, cfg Config) *robot {
	return &robot{
		store:    store,
		selector: selector,
		left: vex.NewMotor(store, cfg.LeftMotor.Port,
			cfg.LeftMotor.GearsetValue(), cfg.LeftMotor.Reversed),
		right: vex.NewMotor(store, cfg.RightMotor.Port,
			cfg.RightMotor.GearsetValue(), cfg.RightMotor.Reversed),
		master:  vex.NewController(store, sim.ControllerMaster),
		lcd:     vex.NewLCD(store),
		battery: vex.NewBattery(store),
	}
}

// initialize mirrors the PROS initialize() entry point: set up the
// LCD and register the autonomous routines.
func (r *robot) initialize() {
	r.lcd.Initialize()
	r.lcd.SetText(0, "hostbrain demo robot")
	r.lcd.Print(1, "battery: %.0f%%", r.battery.Capacity())

	r.lcd.RegisterCenterCallback(func() {
		r.left.TarePosition()
		r.right.TarePosition()
		r.lcd.SetText(2, "odometry zeroed")
	})

	r.selector.Register(auton.CategoryMatch, "Left Side AWP", func() {
		r.driveFor(80, 80, 1000)
		r.driveFor(-60, 60, 400)
	})
	r.selector.Register(auton.CategoryMatch, "Right Side Rush", func() {
		r.driveFor(127, 127, 800)
	})
	r.selector.Register(auton.CategorySkills, "Prog Skills", func() {
		r.driveFor(100, 100, 1200)
		r.driveFor(60, -60, 300)
	})
}

// autonomous runs the routine chosen by the viewer and stops.
func (r *robot) autonomous() {
	r.selector.RunSelected()
	r.stopMotors()
}

// disabled mirrors the PROS disabled() entry point, invoked when the
// field drops the robot out of a live mode. Parks the drive and notes
// the state on the LCD.
func (r *robot) disabled() {
	r.stopMotors()
	r.lcd.SetText(2, "disabled")
}

// opControl is the driver-control loop: tank drive on the two sticks,
// 20 ms cadence like a PROS opcontrol task.
func (r *robot) opControl(stop <-chan struct{}) {
	ticks := 0
	for {
		select {
		case <-stop:
			r.stopMotors()
			return
		default:
		}

		r.left.Move(r.master.Analog(sim.AnalogLeftY))
		r.right.Move(r.master.Analog(sim.AnalogRightY))

		if r.master.DigitalNewPress(sim.ButtonA) {
			r.left.TarePosition()
			r.right.TarePosition()
		}

		// Refresh the LCD readout twice a second.
		if ticks%25 == 0 {
			r.lcd.Print(1, "battery: %.0f%%", r.battery.Capacity())
			r.lcd.Print(3, "pos L %.0f R %.0f", r.left.Position(), r.right.Position())
		}
		ticks++

		rtos.Delay(20)
	}
}

// driveFor runs the two sides at the given voltages for ms
// milliseconds, then stops. Building block for the demo routines.
func (r *robot) driveFor(left, right int, ms uint32) {
	r.left.Move(left)
	r.right.Move(right)
	rtos.Delay(ms)
	r.stopMotors()
}

func (r *robot) stopMotors() {
	r.left.Move(0)
	r.right.Move(0)
}
