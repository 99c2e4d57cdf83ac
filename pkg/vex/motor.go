// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package vex is the PROS-style API that robot control code programs
// against. It is a thin facade over the state store; code written for
// the embedded brain ports over by swapping constructors.
package vex

import (
	"math"

	"github.com/vexsim/hostbrain/pkg/sim"
)

// Motor drives one smart motor through the state store. Negative port
// numbers reverse the motor, like the PROS constructor.
type Motor struct {
	store    *sim.Store
	port     int
	reversed bool
	zero     float64
}

// NewMotor claims a port and marks the motor connected. Out-of-range
// ports are clamped into [1, 21].
func NewMotor(store *sim.Store, port int, gearset sim.Gearset, reversed bool) *Motor {
	if port < 0 {
		port = -port
		reversed = !reversed
	}
	if port < 1 {
		port = 1
	}
	if port > sim.NumPorts {
		port = sim.NumPorts
	}

	m := &Motor{store: store, port: port, reversed: reversed}
	store.SetMotorGearset(port, gearset)
	store.SetMotorReversed(port, reversed)
	store.SetMotorConnected(port, true)
	return m
}

// Port returns the claimed smart port.
func (m *Motor) Port() int { return m.port }

// Move commands the motor with a voltage in [-127, 127].
func (m *Motor) Move(voltage int) {
	if voltage > 127 {
		voltage = 127
	}
	if voltage < -127 {
		voltage = -127
	}
	if m.reversed {
		voltage = -voltage
	}
	m.store.SetMotorVoltage(m.port, voltage)
}

// MoveVoltage commands the motor in millivolts, clamped to ±12000.
func (m *Motor) MoveVoltage(millivolts int) {
	if millivolts > 12000 {
		millivolts = 12000
	}
	if millivolts < -12000 {
		millivolts = -12000
	}
	m.Move(millivolts * 127 / 12000)
}

// MoveVelocity commands a target velocity in rpm. The simulation is
// voltage-driven, so the equivalent voltage is commanded alongside the
// recorded target.
func (m *Motor) MoveVelocity(velocity int) {
	if m.reversed {
		velocity = -velocity
	}
	m.store.SetMotorTargetVelocity(m.port, velocity)

	maxRPM := m.store.MotorGearset(m.port).MaxRPM()
	m.store.SetMotorVoltage(m.port, int(float64(velocity)/maxRPM*127))
}

// MoveAbsolute drives toward an absolute position at the given speed.
// The profile is velocity-only; callers poll Position to detect
// arrival, like PROS code does.
func (m *Motor) MoveAbsolute(position float64, velocity int) {
	diff := position - m.Position()
	if math.Abs(diff) < 0.1 {
		m.Move(0)
		return
	}
	v := velocity
	if v < 0 {
		v = -v
	}
	if diff < 0 {
		v = -v
	}
	m.MoveVelocity(v) // reversal applied there
}

// MoveRelative drives by a position delta at the given speed.
func (m *Motor) MoveRelative(delta float64, velocity int) {
	m.MoveAbsolute(m.Position()+delta, velocity)
}

// Position returns degrees travelled since the last tare.
func (m *Motor) Position() float64 {
	return m.store.MotorPosition(m.port) - m.zero
}

// TarePosition zeroes the position reading.
func (m *Motor) TarePosition() {
	m.zero = m.store.MotorPosition(m.port)
}

// ActualVelocity returns the filtered velocity in rpm.
func (m *Motor) ActualVelocity() float64 {
	return m.store.MotorActualVelocity(m.port)
}

// TargetVelocity returns the commanded velocity in rpm.
func (m *Motor) TargetVelocity() int {
	return m.store.MotorTargetVelocity(m.port)
}

// CurrentDraw returns the simulated current draw in mA.
func (m *Motor) CurrentDraw() int {
	return m.store.MotorCurrent(m.port)
}

// Temperature returns the simulated temperature in Celsius.
func (m *Motor) Temperature() float64 {
	return m.store.MotorTemperature(m.port)
}

// Gearing returns the installed cartridge.
func (m *Motor) Gearing() sim.Gearset {
	return m.store.MotorGearset(m.port)
}

// Direction reports -1, 0 or 1 from the actual velocity.
func (m *Motor) Direction() int {
	v := m.ActualVelocity()
	switch {
	case v > 0.1:
		return 1
	case v < -0.1:
		return -1
	default:
		return 0
	}
}

// Power returns the electrical power estimate in watts.
func (m *Motor) Power() float64 {
	volts := float64(m.store.MotorVoltage(m.port)) / 127.0 * 12.0
	amps := float64(m.CurrentDraw()) / 1000.0
	return volts * amps
}
